package i18n

import (
	"golang.org/x/text/language"

	"github.com/vietanh2810/gametables-api/internal/domain"
)

var english = map[domain.Reason]string{
	domain.ReasonRegistrationClosed:     "Registration for this table is closed.",
	domain.ReasonRegistrationNotOpen:    "Registration for this table is not open yet.",
	domain.ReasonMembersOnly:            "This table is reserved to association members.",
	domain.ReasonAlreadyRegistered:      "You are already registered for this table.",
	domain.ReasonGuestAlreadyRegistered: "This email address is already registered for this table.",
	domain.ReasonTableFull:              "This table is full.",
	domain.ReasonSpectatorsFull:         "There is no spectator seat left at this table.",
	domain.ReasonNotFound:               "This table does not exist.",
	domain.ReasonGuestsNotAllowed:       "This table does not accept guest registrations.",

	domain.ReasonFrontendCreationDisabled: "Creating content from the site is currently disabled.",
	domain.ReasonTablesNotAllowed:         "Creating tables is not allowed.",
	domain.ReasonCampaignsNotAllowed:      "Creating campaigns is not allowed.",
	domain.ReasonAuthenticationRequired:   "You must be signed in.",
	domain.ReasonUserNotFound:             "Your account could not be found.",
	domain.ReasonRoleNotAllowed:           "Your role does not allow this.",
	domain.ReasonNoRolesConfigured:        "No role is allowed to do this yet.",
	domain.ReasonPermissionDenied:         "You do not have the required permission.",
	domain.ReasonNoPermissionConfigured:   "No permission has been configured for this.",
	domain.ReasonTablesNotEnabledForEvent: "This event does not accept tables.",
	domain.ReasonCreationNotOpen:          "Table creation for this event is not open yet.",
	domain.ReasonSlotRequired:             "Tables for this event must start within a time slot.",
	domain.ReasonSlotFull:                 "This time slot has no room left for another table.",
}

var french = map[domain.Reason]string{
	domain.ReasonRegistrationClosed:     "Les inscriptions à cette table sont closes.",
	domain.ReasonRegistrationNotOpen:    "Les inscriptions à cette table ne sont pas encore ouvertes.",
	domain.ReasonMembersOnly:            "Cette table est réservée aux adhérents de l'association.",
	domain.ReasonAlreadyRegistered:      "Vous êtes déjà inscrit à cette table.",
	domain.ReasonGuestAlreadyRegistered: "Cette adresse e-mail est déjà inscrite à cette table.",
	domain.ReasonTableFull:              "Cette table est complète.",
	domain.ReasonSpectatorsFull:         "Il ne reste aucune place de spectateur à cette table.",
	domain.ReasonNotFound:               "Cette table n'existe pas.",
	domain.ReasonGuestsNotAllowed:       "Cette table n'accepte pas les inscriptions d'invités.",

	domain.ReasonFrontendCreationDisabled: "La création de contenu depuis le site est désactivée.",
	domain.ReasonTablesNotAllowed:         "La création de tables n'est pas autorisée.",
	domain.ReasonCampaignsNotAllowed:      "La création de campagnes n'est pas autorisée.",
	domain.ReasonAuthenticationRequired:   "Vous devez être connecté.",
	domain.ReasonUserNotFound:             "Votre compte est introuvable.",
	domain.ReasonRoleNotAllowed:           "Votre rôle ne le permet pas.",
	domain.ReasonNoRolesConfigured:        "Aucun rôle n'est encore autorisé.",
	domain.ReasonPermissionDenied:         "Vous n'avez pas la permission requise.",
	domain.ReasonNoPermissionConfigured:   "Aucune permission n'a été configurée.",
	domain.ReasonTablesNotEnabledForEvent: "Cet événement n'accepte pas de tables.",
	domain.ReasonCreationNotOpen:          "La création de tables pour cet événement n'est pas encore ouverte.",
	domain.ReasonSlotRequired:             "Les tables de cet événement doivent commencer dans un créneau.",
	domain.ReasonSlotFull:                 "Ce créneau n'a plus de place pour une table.",
}

var catalogs = map[language.Tag]map[domain.Reason]string{
	language.English: english,
	language.French:  french,
}
