// Package validation holds the custom binding rules shared by request DTOs.
package validation

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// Tag names of the custom rules.
const (
	TagCourseName = "coursename"
)

// Validation rule patterns
var (
	// Subject code, catalog number and an optional suffix letter: "CS 18000", "MA 26100", "ECE 20001H".
	CourseNamePattern = `^[A-Za-z]{1,6}\s*\d{3,5}[A-Za-z]?$`
)

// CompiledPatterns caches compiled regex patterns
var CompiledPatterns = struct {
	CourseName *regexp.Regexp
}{
	CourseName: regexp.MustCompile(CourseNamePattern),
}

// IsCourseName reports whether s looks like a course code.
func IsCourseName(s string) bool {
	return CompiledPatterns.CourseName.MatchString(strings.TrimSpace(s))
}

// IsCampusEmail reports whether email belongs to domain, subdomains included.
// An empty domain accepts every address.
func IsCampusEmail(email, domain string) bool {
	domain = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(domain), "@"))
	if domain == "" {
		return true
	}
	at := strings.LastIndex(email, "@")
	if at < 0 {
		return false
	}
	host := strings.ToLower(email[at+1:])
	return host == domain || strings.HasSuffix(host, "."+domain)
}

// RegisterRules installs the custom rules on gin's binding validator.
func RegisterRules() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return fmt.Errorf("unexpected binding validator engine %T", binding.Validator.Engine())
	}
	return Register(v)
}

// Register installs the custom rules on v.
func Register(v *validator.Validate) error {
	if err := v.RegisterValidation(TagCourseName, func(fl validator.FieldLevel) bool {
		return IsCourseName(fl.Field().String())
	}); err != nil {
		return fmt.Errorf("register %s rule: %w", TagCourseName, err)
	}
	return nil
}
