package resultlog

// Tag is the outcome marker written in front of every result line.
type Tag string

const (
	TagSuccess     Tag = "SUCCESS"
	TagFailed      Tag = "FAILED"
	TagWarn        Tag = "WARN"
	TagLoginFailed Tag = "LOGIN FAILED"
)

// IResultLog appends result records. It never truncates or rewrites earlier lines.
type IResultLog interface {
	Record(tag Tag, message string)
	Path() string
}
