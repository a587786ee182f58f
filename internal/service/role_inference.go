package service

import (
	"regexp"
	"strings"

	"github.com/noah-isme/campus-events-api/internal/models"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// IsValidEmail reports whether email has the local@domain.tld shape.
func IsValidEmail(email string) bool {
	return emailPattern.MatchString(email)
}

// RoleInferrer maps email domains to roles.
type RoleInferrer struct {
	student map[string]struct{}
	staff   map[string]struct{}
}

// NewRoleInferrer builds an inferrer from the configured domain lists.
func NewRoleInferrer(studentDomains, staffDomains []string) *RoleInferrer {
	return &RoleInferrer{student: domainSet(studentDomains), staff: domainSet(staffDomains)}
}

// InferRole never fails: anything that is not an exact student or staff
// domain match is external. Student domains win when a domain is in both lists.
func (r *RoleInferrer) InferRole(email string) models.Role {
	_, domain, ok := strings.Cut(email, "@")
	if !ok {
		return models.RoleExternal
	}
	domain = strings.ToLower(domain)
	if _, ok := r.student[domain]; ok {
		return models.RoleStudent
	}
	if _, ok := r.staff[domain]; ok {
		return models.RoleStaff
	}
	return models.RoleExternal
}

func domainSet(domains []string) map[string]struct{} {
	set := make(map[string]struct{}, len(domains))
	for _, d := range domains {
		d = strings.ToLower(strings.TrimSpace(d))
		if d != "" {
			set[d] = struct{}{}
		}
	}
	return set
}
