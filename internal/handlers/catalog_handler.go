package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nevos-health/nevos-api/internal/models"
)

// Static reference content backing the education and booking pages.

var diseases = []models.Disease{
	{
		Name:        "Melanoma",
		Description: "The most serious type of skin cancer, developing in the cells that produce melanin. Early detection is critical.",
		RiskLevel:   "Serious",
	},
	{
		Name:        "Basal Cell Carcinoma",
		Description: "The most common form of skin cancer, often appearing as a slightly transparent bump on sun-exposed skin.",
		RiskLevel:   "Moderate",
	},
	{
		Name:        "Squamous Cell Carcinoma",
		Description: "A common skin cancer appearing as a firm red nodule or a flat lesion with a scaly, crusted surface.",
		RiskLevel:   "Moderate",
	},
	{
		Name:        "Benign Nevus (Mole)",
		Description: "A common, non-cancerous skin growth. Monitor for changes in size, shape, or color.",
		RiskLevel:   "Normal",
	},
	{
		Name:        "Actinic Keratosis",
		Description: "A rough, scaly patch caused by years of sun exposure. Can occasionally progress to squamous cell carcinoma.",
		RiskLevel:   "Mild",
	},
}

var clinicServices = []models.ClinicService{
	{Name: "Dermatology Consultation", Description: "A one-on-one consultation with a board-certified dermatologist."},
	{Name: "Skin Cancer Screening", Description: "A full-body examination to detect suspicious lesions early."},
	{Name: "Mole Mapping", Description: "Photographic tracking of moles over time to catch changes."},
	{Name: "Biopsy", Description: "Tissue sampling of a suspicious lesion for laboratory analysis."},
	{Name: "Teledermatology Review", Description: "Remote review of your analysis history by a specialist."},
}

func (h *Handler) GetDiseases(c *gin.Context) {
	c.JSON(http.StatusOK, diseases)
}

func (h *Handler) GetServices(c *gin.Context) {
	c.JSON(http.StatusOK, clinicServices)
}
