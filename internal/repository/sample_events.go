package repository

import (
	"time"

	"github.com/noah-isme/campus-events-api/internal/models"
)

func capacity(n int) *int { return &n }

// SampleEvents returns the demonstration catalog written on first start.
func SampleEvents() []models.Event {
	return []models.Event{
		{
			ID:            "1",
			Title:         "Conferencia Internacional de Ingeniería",
			Date:          models.NewDate(2024, time.November, 25),
			Time:          "09:00 - 17:00",
			Location:      "Auditorio Principal",
			Organizer:     "Facultad de Ingeniería",
			Category:      models.CategoryAcademic,
			AudienceType:  models.AudienceStudents,
			Attendees:     156,
			MaxAttendees:  capacity(200),
			Description:   "Conferencia con expertos internacionales sobre las últimas tendencias en ingeniería y tecnología. Incluye talleres prácticos y networking.",
			IsHighlighted: true,
		},
		{
			ID:           "2",
			Title:        "Festival Cultural Universitario",
			Date:         models.NewDate(2024, time.November, 28),
			Time:         "18:00 - 22:00",
			Location:     "Plaza Central",
			Organizer:    "Extensión Cultural",
			Category:     models.CategoryCultural,
			AudienceType: models.AudiencePublic,
			Attendees:    324,
			MaxAttendees: capacity(500),
			Description:  "Celebración anual con presentaciones de danza, música y teatro de estudiantes y artistas invitados.",
		},
		{
			ID:           "3",
			Title:        "Torneo Intercampus de Fútbol",
			Date:         models.NewDate(2024, time.November, 30),
			Time:         "15:00 - 19:00",
			Location:     "Cancha de Fútbol",
			Organizer:    "Deportes Universitarios",
			Category:     models.CategorySports,
			AudienceType: models.AudienceStudents,
			Attendees:    89,
			MaxAttendees: capacity(120),
			Description:  "Torneo entre las diferentes facultades. Inscripciones abiertas hasta el 28 de noviembre.",
		},
		{
			ID:           "4",
			Title:        "Seminario de Emprendimiento Digital",
			Date:         models.NewDate(2024, time.December, 2),
			Time:         "10:00 - 15:00",
			Location:     "Sala de Conferencias B",
			Organizer:    "Centro de Emprendimiento",
			Category:     models.CategoryConference,
			AudienceType: models.AudienceStudents,
			Attendees:    67,
			MaxAttendees: capacity(80),
			Description:  "Aprende sobre las herramientas digitales más efectivas para lanzar tu startup. Incluye casos de éxito y mentorías.",
		},
		{
			ID:           "5",
			Title:        "Jornada de Puertas Abiertas",
			Date:         models.NewDate(2024, time.December, 5),
			Time:         "08:00 - 16:00",
			Location:     "Campus Principal",
			Organizer:    "Admisiones",
			Category:     models.CategoryAdministrative,
			AudienceType: models.AudiencePublic,
			Attendees:    245,
			Description:  "Evento para futuros estudiantes y sus familias. Incluye tours por las instalaciones y charlas informativas.",
		},
		{
			ID:           "6",
			Title:        "Concierto de la Orquesta Universitaria",
			Date:         models.NewDate(2024, time.December, 8),
			Time:         "20:00 - 22:00",
			Location:     "Teatro Universitario",
			Organizer:    "Conservatorio",
			Category:     models.CategoryCultural,
			AudienceType: models.AudiencePublic,
			Attendees:    178,
			MaxAttendees: capacity(300),
			Description:  "Concierto de fin de año con obras clásicas y contemporáneas interpretadas por la orquesta universitaria.",
		},
	}
}
