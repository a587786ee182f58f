package models

import "strings"

var accentFolder = strings.NewReplacer(
	"á", "a", "é", "e", "í", "i", "ó", "o", "ú", "u", "ü", "u", "ñ", "n",
	"Á", "a", "É", "e", "Í", "i", "Ó", "o", "Ú", "u", "Ü", "u", "Ñ", "n",
)

// NormalizeTag lower-cases, trims and folds Spanish accents so "Público"
// and "publico" compare equal.
func NormalizeTag(raw string) string {
	return accentFolder.Replace(strings.ToLower(strings.TrimSpace(raw)))
}

// Category classifies an event.
type Category string

const (
	CategoryAcademic       Category = "academic"
	CategoryCultural       Category = "cultural"
	CategorySports         Category = "sports"
	CategoryAdministrative Category = "administrative"
	CategoryConference     Category = "conference"
)

// Categories lists every category in display order.
var Categories = []Category{CategoryAcademic, CategoryCultural, CategorySports, CategoryConference, CategoryAdministrative}

var categoryAliases = map[string]Category{
	"academic":       CategoryAcademic,
	"academico":      CategoryAcademic,
	"cultural":       CategoryCultural,
	"sports":         CategorySports,
	"sport":          CategorySports,
	"deportivo":      CategorySports,
	"deportes":       CategorySports,
	"administrative": CategoryAdministrative,
	"administrativo": CategoryAdministrative,
	"conference":     CategoryConference,
	"conferencia":    CategoryConference,
}

// ParseCategory resolves a category tag or alias.
func ParseCategory(raw string) (Category, bool) {
	c, ok := categoryAliases[NormalizeTag(raw)]
	return c, ok
}

// UnmarshalText keeps unknown tags in normalised form so they fail every filter.
func (c *Category) UnmarshalText(text []byte) error {
	if parsed, ok := ParseCategory(string(text)); ok {
		*c = parsed
		return nil
	}
	*c = Category(NormalizeTag(string(text)))
	return nil
}

// AudienceType restricts who may enroll in an event.
type AudienceType string

const (
	AudienceStudents AudienceType = "students"
	AudienceStaff    AudienceType = "staff"
	AudiencePublic   AudienceType = "public"
	AudienceInternal AudienceType = "internal"
)

// AudienceTypes lists every audience in display order.
var AudienceTypes = []AudienceType{AudienceStudents, AudienceStaff, AudiencePublic, AudienceInternal}

var audienceAliases = map[string]AudienceType{
	"students":     AudienceStudents,
	"estudiantes":  AudienceStudents,
	"staff":        AudienceStaff,
	"funcionarios": AudienceStaff,
	"public":       AudiencePublic,
	"publico":      AudiencePublic,
	"internal":     AudienceInternal,
	"interno":      AudienceInternal,
}

// ParseAudienceType resolves an audience tag or alias.
func ParseAudienceType(raw string) (AudienceType, bool) {
	a, ok := audienceAliases[NormalizeTag(raw)]
	return a, ok
}

func (a *AudienceType) UnmarshalText(text []byte) error {
	if parsed, ok := ParseAudienceType(string(text)); ok {
		*a = parsed
		return nil
	}
	*a = AudienceType(NormalizeTag(string(text)))
	return nil
}

// Role is derived from an email domain and never accepted from input.
type Role string

const (
	RoleStudent  Role = "student"
	RoleStaff    Role = "staff"
	RoleExternal Role = "external"
)

var roleAliases = map[string]Role{
	"student":     RoleStudent,
	"estudiante":  RoleStudent,
	"staff":       RoleStaff,
	"funcionario": RoleStaff,
	"external":    RoleExternal,
	"externo":     RoleExternal,
}

// UnmarshalText accepts the Spanish role tags found in legacy stored data.
func (r *Role) UnmarshalText(text []byte) error {
	tag := NormalizeTag(string(text))
	if tag == "" {
		*r = ""
		return nil
	}
	if parsed, ok := roleAliases[tag]; ok {
		*r = parsed
		return nil
	}
	*r = RoleExternal
	return nil
}
