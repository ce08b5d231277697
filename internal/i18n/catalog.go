package i18n

import "github.com/findosh/tourdesk/internal/models"

// DefaultCatalog returns the built-in strings
func DefaultCatalog() Catalog {
	return Catalog{
		models.LanguageSpanish: {
			NavHome:          "Inicio",
			NavNews:          "Noticias",
			NavItems:         "Ítems",
			NavActivities:    "Actividades",
			NavEvents:        "Eventos",
			NavNotices:       "Avisos",
			NavUsers:         "Usuarios",
			NavAnalytics:     "Estadísticas",
			NavNotifications: "Notificaciones",
			NavSettings:      "Ajustes",

			AuthInvalidCredentials: "Usuario o contraseña incorrectos",
			AuthInactiveUser:       "La cuenta está desactivada",
			ErrorUnauthorized:      "Debes iniciar sesión",
			ErrorForbidden:         "No tienes permiso para esta acción",
			ErrorNotFound:          "No encontrado",
			ErrorBadRequest:        "Solicitud no válida",
			ErrorConflict:          "El recurso ya existe",
			ErrorInternal:          "Error interno",

			KPIUsers:          "Usuarios Registrados",
			KPIActiveSessions: "Sesiones Activas",
			KPIPublishedNews:  "Noticias Publicadas",
			KPINotices:        "Avisos Publicados",
		},
		models.LanguageValencian: {
			NavHome:          "Inici",
			NavNews:          "Notícies",
			NavItems:         "Ítems",
			NavActivities:    "Activitats",
			NavEvents:        "Esdeveniments",
			NavNotices:       "Avisos",
			NavUsers:         "Usuaris",
			NavAnalytics:     "Estadístiques",
			NavNotifications: "Notificacions",
			NavSettings:      "Configuració",

			AuthInvalidCredentials: "Usuari o contrasenya incorrectes",
			AuthInactiveUser:       "El compte està desactivat",
			ErrorUnauthorized:      "Has d'iniciar sessió",
			ErrorForbidden:         "No tens permís per a aquesta acció",
			ErrorNotFound:          "No trobat",
			ErrorBadRequest:        "Sol·licitud no vàlida",

			KPIUsers:          "Usuaris Registrats",
			KPIActiveSessions: "Sessions Actives",
			KPIPublishedNews:  "Notícies Publicades",
			KPINotices:        "Avisos Publicats",
		},
		models.LanguageEnglish: {
			NavHome:          "Home",
			NavNews:          "News",
			NavItems:         "Items",
			NavActivities:    "Activities",
			NavEvents:        "Events",
			NavNotices:       "Notices",
			NavUsers:         "Users",
			NavAnalytics:     "Analytics",
			NavNotifications: "Notifications",
			NavSettings:      "Settings",

			AuthInvalidCredentials: "Invalid username or password",
			AuthInactiveUser:       "This account is disabled",
			ErrorUnauthorized:      "You must sign in",
			ErrorForbidden:         "You are not allowed to do this",
			ErrorNotFound:          "Not found",
			ErrorBadRequest:        "Invalid request",
			ErrorConflict:          "Resource already exists",
			ErrorInternal:          "Internal error",

			KPIUsers:          "Registered Users",
			KPIActiveSessions: "Active Sessions",
			KPIPublishedNews:  "Published News",
			KPINotices:        "Published Notices",
		},
	}
}
