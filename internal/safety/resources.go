package safety

// ContactType is the closed set of crisis-contact kinds. Each variant
// carries only the fields that make sense for it: emergency and hotline
// contacts have a number, online resources have a website.
type ContactType string

const (
	ContactEmergency ContactType = "emergency"
	ContactHotline   ContactType = "crisis_hotline"
	ContactOnline    ContactType = "online_resource"
)

// Contact is one entry of the crisis-contact catalog. Number and Website are
// populated by the typed constructors below, never both.
type Contact struct {
	ID           string      `json:"id"`
	Type         ContactType `json:"type"`
	Name         string      `json:"name"`
	Number       string      `json:"number,omitempty"`
	Description  string      `json:"description"`
	Website      string      `json:"website,omitempty"`
	Availability string      `json:"availability"`
	Country      string      `json:"country"`
	Priority     int         `json:"priority"`
}

func emergencyContact(id, name, number, desc, country string, priority int) Contact {
	return Contact{ID: id, Type: ContactEmergency, Name: name, Number: number,
		Description: desc, Availability: "24/7", Country: country, Priority: priority}
}

func hotlineContact(id, name, number, desc, availability, country string, priority int) Contact {
	return Contact{ID: id, Type: ContactHotline, Name: name, Number: number,
		Description: desc, Availability: availability, Country: country, Priority: priority}
}

func onlineContact(id, name, website, desc, availability, country string, priority int) Contact {
	return Contact{ID: id, Type: ContactOnline, Name: name, Website: website,
		Description: desc, Availability: availability, Country: country, Priority: priority}
}

// catalog is the fixed contact list shown by the resource-reveal step and the
// crisis-resources endpoint, ordered by priority. It never depends on
// generation or network lookups.
var catalog = []Contact{
	emergencyContact("emergency-112", "Emergency Services", "112",
		"Immediate emergency assistance (police, ambulance, fire).", "International", 1),
	hotlineContact("lifeline-988", "988 Suicide & Crisis Lifeline", "988",
		"Free, confidential support for people in distress.", "24/7", "United States", 2),
	hotlineContact("aasra", "AASRA", "+91-9820466726",
		"Crisis intervention helpline for the depressed and suicidal.", "24/7", "India", 3),
	hotlineContact("crisis-text-line", "Crisis Text Line", "741741",
		"Text HOME to reach a trained crisis counselor.", "24/7", "United States", 4),
	onlineContact("7cups", "7 Cups", "https://www.7cups.com",
		"Free emotional support through trained volunteer listeners.", "24/7", "International", 5),
	onlineContact("iasp-directory", "IASP Crisis Centre Directory", "https://www.iasp.info/resources/Crisis_Centres",
		"Directory of crisis centres worldwide, by country.", "Always available", "International", 6),
}

// Catalog returns the full static contact catalog in priority order. The
// slice is copied so callers cannot mutate the catalog.
func Catalog() []Contact {
	out := make([]Contact, len(catalog))
	copy(out, catalog)
	return out
}
