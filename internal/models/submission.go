package models

// Submission is one company's self-assessed health index record.
// IDs are assigned by OxiDB and normalized to strings; timestamps are
// RFC3339 UTC strings so they sort chronologically in the store.
type Submission struct {
	ID          string `json:"_id,omitempty"`
	Name        string `json:"name" validate:"required"`
	CompanyName string `json:"companyName" validate:"required"`
	Address     string `json:"address,omitempty"`
	PhoneNumber string `json:"phoneNumber,omitempty"`
	Email       string `json:"email" validate:"required"`
	Website     string `json:"website,omitempty"`

	BusinessType       string   `json:"businessType" validate:"required"`
	BusinessCategories []string `json:"businessCategories"`

	// Performance metrics, each a 1-10 score.
	QualityIndex         int `json:"qualityIndex" validate:"min=1,max=10"`
	CostEfficiency       int `json:"costEfficiency" validate:"min=1,max=10"`
	DeliveryTimeliness   int `json:"deliveryTimeliness" validate:"min=1,max=10"`
	CustomerSatisfaction int `json:"customerSatisfaction" validate:"min=1,max=10"`
	ProcessStability     int `json:"processStability" validate:"min=1,max=10"`
	EmployeeHealth       int `json:"employeeHealth" validate:"min=1,max=10"`

	SubmittedAt string `json:"submittedAt,omitempty"`
}

// BusinessTypes is the closed set of accepted businessType values.
var BusinessTypes = []string{
	"Manufacturing Company",
	"Service Company",
}

// BusinessCategories is the catalog the submission form offers. Entries are
// not enforced server-side so the client catalog can evolve independently.
var BusinessCategories = []string{
	"Agriculture & Farming", "Industrial & Manufacturing", "Consumer Goods & Retail",
	"Food & Beverage", "Health & Beauty", "Automotive & Transportation",
	"Professional & Business Services", "Financial Services", "Healthcare Services",
	"Hospitality & Tourism", "Education & Training", "Construction & Real Estate",
	"Transportation & Logistics", "Maintenance & Repair Services", "Personal & Lifestyle Services",
}

// ValidBusinessType reports whether t is in the accepted set.
func ValidBusinessType(t string) bool {
	for _, v := range BusinessTypes {
		if v == t {
			return true
		}
	}
	return false
}
