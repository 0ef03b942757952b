package models

// Disease is a static reference entry shown on the education page.
type Disease struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	RiskLevel   string `json:"riskLevel"`
}

// ClinicService is a bookable service type offered through the app.
type ClinicService struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}
