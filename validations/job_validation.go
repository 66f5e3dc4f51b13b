package validations

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	domainJob "github.com/AzielCF/az-autopost/domains/job"
	pkgError "github.com/AzielCF/az-autopost/pkg/error"
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// MaxCaptionLength is the longest caption the platform accepts.
const MaxCaptionLength = 2200

// ValidateBatchSize parses the operator's answer to "how many posts".
func ValidateBatchSize(input string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(input))
	if err != nil {
		return 0, pkgError.ValidationError("Please enter a valid integer.")
	}
	if n <= 0 {
		return 0, pkgError.ValidationError("Enter a positive number.")
	}
	return n, nil
}

// NormalizeContentPath strips accidental quotes, makes the path absolute and checks
// that it names an existing regular file.
func NormalizeContentPath(input string) (string, error) {
	p := strings.TrimSpace(input)
	p = stripQuotes(p, '"')
	p = stripQuotes(p, '\'')
	if p == "" {
		return "", pkgError.ValidationError("File not found. Try again.")
	}

	abs, err := filepath.Abs(p)
	if err != nil {
		return "", pkgError.ValidationError(fmt.Sprintf("Invalid path: %v", err))
	}

	info, err := os.Stat(abs)
	if err != nil {
		return "", pkgError.ValidationError("File not found. Try again.")
	}
	if info.IsDir() {
		return "", pkgError.ValidationError(fmt.Sprintf("You entered a folder, not a file. Example: %s", filepath.Join(abs, "post.jpg")))
	}
	if !info.Mode().IsRegular() {
		return "", pkgError.ValidationError("Not a regular file. Try again.")
	}
	return abs, nil
}

func stripQuotes(s string, q byte) string {
	if len(s) >= 2 && s[0] == q && s[len(s)-1] == q {
		return s[1 : len(s)-1]
	}
	return s
}

// ParseScheduleTime reads YYYY-MM-DD HH:MM in loc.
func ParseScheduleTime(input string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	t, err := time.ParseInLocation(domainJob.ScheduleLayout, strings.TrimSpace(input), loc)
	if err != nil {
		return time.Time{}, pkgError.ValidationError("Invalid format. Use: 2025-09-16 09:30")
	}
	return t, nil
}

// IsFuture reports whether t is strictly after now.
func IsFuture(t, now time.Time) bool {
	return t.After(now)
}

// ParseYesNo accepts y/yes (any case). Everything else is a no.
func ParseYesNo(input string) bool {
	switch strings.ToLower(strings.TrimSpace(input)) {
	case "y", "yes":
		return true
	}
	return false
}

// ValidateJob is the last check before a job joins a batch.
func ValidateJob(ctx context.Context, j domainJob.Job) error {
	err := validation.ValidateStructWithContext(ctx, &j,
		validation.Field(&j.ID, validation.Required),
		validation.Field(&j.ContentPath, validation.Required, validation.By(absolutePath)),
		validation.Field(&j.Caption, validation.RuneLength(0, MaxCaptionLength)),
		validation.Field(&j.TargetTime, validation.Required),
	)
	if err != nil {
		return pkgError.ValidationError(err.Error())
	}
	return nil
}

func absolutePath(value interface{}) error {
	s, _ := value.(string)
	if !filepath.IsAbs(s) {
		return fmt.Errorf("must be an absolute path")
	}
	return nil
}
