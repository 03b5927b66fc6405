// Crisis-resource HTTP handlers.
//
// This file exposes REST endpoints for crisis-support contacts:
//   - GET /crisis-resources           (static, always-available catalog)
//   - GET /crisis-resources/regional  (cache-aside AI-generated country list)
//
// The static catalog endpoint never fails and never depends on generation;
// it is the guarantee backing the conversation safety flow.
package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/stressease/go-backend/internal/safety"
	"github.com/stressease/go-backend/internal/services"
)

// CrisisResourcesResponse wraps an ordered list of crisis contacts.
type CrisisResourcesResponse struct {
	Country   string           `json:"country,omitempty"`
	Resources []safety.Contact `json:"resources"`
}

// GetCrisisResources godoc
// @ID          getCrisisResources
// @Summary     Get the crisis contact catalog
// @Description Returns the fixed, ordered list of crisis-support contacts. Always available.
// @Tags        Resources
// @Produce     json
//
// @Success     200  {object}  handlers.CrisisResourcesResponse
// @Router      /crisis-resources [get]
func (h *Handlers) GetCrisisResources(c *gin.Context) {
	ok(c, http.StatusOK, CrisisResourcesResponse{Resources: h.resSvc.Catalog()})
}

// GetRegionalCrisisResources godoc
// @ID          getRegionalCrisisResources
// @Summary     Get crisis contacts for a country
// @Description Returns crisis-support contacts for the given country, served from cache when possible.
// @Description Defaults to India when no country is supplied.
// @Tags        Resources
// @Produce     json
//
// @Param       country  query  string  false "Country name"  example(United Kingdom)
//
// @Success     200  {object}  handlers.CrisisResourcesResponse
// @Failure     404  {object}  handlers.ErrorResponse  "No resources found for country"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /crisis-resources/regional [get]
func (h *Handlers) GetRegionalCrisisResources(c *gin.Context) {
	country := strings.TrimSpace(c.Query("country"))
	if country == "" {
		country = services.DefaultCountry
	}

	contacts, err := h.resSvc.Regional(c.Request.Context(), country)
	if err != nil {
		if errors.Is(err, services.ErrResourcesUnavailable) {
			fail(c, http.StatusNotFound, ErrCodeResourcesUnavailable, "no crisis resources found for "+country)
			return
		}
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		return
	}
	ok(c, http.StatusOK, CrisisResourcesResponse{Country: country, Resources: contacts})
}
