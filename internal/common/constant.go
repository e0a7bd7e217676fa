package common

// AppVersion is reported by the profile screen and the version command.
const AppVersion = "1.0.2"

// External pages opened in the system browser.
const (
	PricingURL = "https://the-yard.netlify.app/pricing"
	ManageURL  = "https://the-yard.netlify.app/dashboard/subscription"
	TermsURL   = "https://the-yard.netlify.app/terms"
	SupportURL = "mailto:support@theyard.com"
)

// GoogleWebClientID is the OAuth web client used for federated sign-in.
const GoogleWebClientID = "451344283008-4piccc7djbnfmeaeu2ks7q9b165k2fis.apps.googleusercontent.com"
