package models

type AgencyReference struct {
	Email    string `json:"email"`
	FareUrl  string `json:"fareUrl"`
	ID       string `json:"id"`
	Lang     string `json:"lang"`
	Name     string `json:"name"`
	Phone    string `json:"phone"`
	Timezone string `json:"timezone"`
	URL      string `json:"url"`
}

// NewAgencyReference creates a new AgencyReference instance with the provided values
func NewAgencyReference(id, name, url, timezone, lang, phone, email, fareUrl string) AgencyReference {
	return AgencyReference{
		ID:       id,
		Name:     name,
		URL:      url,
		Timezone: timezone,
		Lang:     lang,
		Phone:    phone,
		Email:    email,
		FareUrl:  fareUrl,
	}
}
