package config

type ProviderConfig interface {
	GetTwilioAccountSID() string
	GetTwilioAuthToken() string
	GetTwilioFromNumber() string
	HasTwilioCredentials() bool

	GetGoogleClientID() string
	GetGoogleClientSecret() string
}

type Providers struct{}

var _ ProviderConfig = Providers{}

func (Providers) GetTwilioAccountSID() string {
	return GetEnv("TWILIO_ACCOUNT_SID", "")
}

func (Providers) GetTwilioAuthToken() string {
	return GetEnv("TWILIO_AUTH_TOKEN", "")
}

func (Providers) GetTwilioFromNumber() string {
	return GetEnv("TWILIO_PHONE_NUMBER", "")
}

func (p Providers) HasTwilioCredentials() bool {
	return p.GetTwilioAccountSID() != "" && p.GetTwilioAuthToken() != ""
}

func (Providers) GetGoogleClientID() string {
	return GetEnv("GOOGLE_CLIENT_ID", "")
}

func (Providers) GetGoogleClientSecret() string {
	return GetEnv("GOOGLE_CLIENT_SECRET", "")
}
