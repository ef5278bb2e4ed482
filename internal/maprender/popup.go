package maprender

import (
	"time"

	"github.com/lci-slovakia/sighting-map-service/internal/domain"
)

// Language selects popup and control labels. The site serves Slovak by
// default with an English toggle.
type Language string

const (
	LanguageSK Language = "sk"
	LanguageEN Language = "en"
)

// Popup is the information card attached to a marker.
type Popup struct {
	CategoryLabel string `json:"category_label"`
	Title         string `json:"title"`
	Date          string `json:"date,omitempty"`
	Description   string `json:"description,omitempty"`
	ReadMoreURL   string `json:"read_more_url,omitempty"`
	ReadMoreLabel string `json:"read_more_label,omitempty"`
}

var categoryLabels = map[Language]map[domain.Category]string{
	LanguageSK: {
		domain.CategoryObservation:   "Pozorovanie",
		domain.CategoryPresenceSigns: "Pobytové znaky",
		domain.CategoryConflict:      "Stret",
	},
	LanguageEN: {
		domain.CategoryObservation:   "Observation",
		domain.CategoryPresenceSigns: "Presence Signs",
		domain.CategoryConflict:      "Conflict",
	},
}

var labels = map[Language]map[string]string{
	LanguageSK: {
		"species":         "Medveď hnedý",
		"citizen_label":   "Hlásenia ľudí",
		"citizen_title":   "Hlásenie od občana",
		"citizen_body":    "Nahlásený výskyt medveďa",
		"activity_title":  "Medvedia aktualita",
		"activity_attack": "Útok",
		"read_more":       "Čítaj viac",
		"not_found":       "Miesto nebolo nájdené",
		"search_error":    "Chyba pri vyhľadávaní",
	},
	LanguageEN: {
		"species":         "Brown Bear",
		"citizen_label":   "People Reports",
		"citizen_title":   "Citizen Report",
		"citizen_body":    "Reported bear sighting",
		"activity_title":  "Bear Activity",
		"activity_attack": "Attack",
		"read_more":       "Read more",
		"not_found":       "Location not found",
		"search_error":    "Search error",
	},
}

var skMonths = [...]string{
	"január", "február", "marec", "apríl", "máj", "jún",
	"júl", "august", "september", "október", "november", "december",
}

func label(lang Language, key string) string {
	if m, ok := labels[lang]; ok {
		if v, ok := m[key]; ok {
			return v
		}
	}
	return labels[LanguageSK][key]
}

// SearchNotFoundMessage is the inline message for a geocode miss.
func SearchNotFoundMessage(lang Language) string { return label(lang, "not_found") }

// SearchErrorMessage is the inline message for a geocode failure.
func SearchErrorMessage(lang Language) string { return label(lang, "search_error") }

// formatPopupDate reduces a sighting date to month + year, localized. An
// unparseable date is shown verbatim.
func formatPopupDate(date string, lang Language) string {
	t, err := time.Parse("2006-01-02", date)
	if err != nil {
		if t, err = time.Parse(time.RFC3339, date); err != nil {
			return date
		}
	}
	if lang == LanguageSK {
		return skMonths[t.Month()-1] + " " + t.Format("2006")
	}
	return t.Format("January 2006")
}

func sightingPopup(s domain.Sighting, lang Language) Popup {
	return Popup{
		CategoryLabel: categoryLabels[lang][s.Category],
		Title:         label(lang, "species"),
		Date:          formatPopupDate(s.Date, lang),
	}
}

func citizenPopup(lang Language) Popup {
	return Popup{
		CategoryLabel: label(lang, "citizen_label"),
		Title:         label(lang, "citizen_title"),
		Description:   label(lang, "citizen_body"),
	}
}

func activityPopup(a domain.Activity, lang Language) Popup {
	categoryLabel := categoryLabels[lang][domain.CategoryObservation]
	if a.IsConflict {
		categoryLabel = label(lang, "activity_attack")
	}

	p := Popup{
		CategoryLabel: categoryLabel,
		Title:         label(lang, "activity_title"),
		Date:          a.Date,
		Description:   a.Description,
	}
	if a.URL != "" {
		p.ReadMoreURL = a.URL
		p.ReadMoreLabel = label(lang, "read_more")
	}
	return p
}
