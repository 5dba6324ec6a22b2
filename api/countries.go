package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/bitmark-inc/coronavirus-calculator/consts"
	"github.com/bitmark-inc/coronavirus-calculator/schema"
)

func (s *Server) listCountries(c *gin.Context) {
	registry := s.countries()

	c.JSON(http.StatusOK, gin.H{
		"id":                registry.ID(),
		"countries":         registry.Countries(),
		"default_selection": registry.DefaultSelection(),
		"last_modified":     registry.LastModified().Format(consts.ReadableDateLayout),
		"source":            registry.Source(),
		"dropped":           registry.Dropped(),
	})
}

func (s *Server) countryDetail(c *gin.Context) {
	name := strings.TrimSpace(c.Param("country"))
	if name == "" {
		abortWithEncoding(c, http.StatusBadRequest, errorInvalidParameters)
		return
	}

	record, ok := s.countries().Record(name)
	if !ok {
		abortWithEncoding(c, http.StatusNotFound, errorCountryNotFound)
		return
	}

	c.JSON(http.StatusOK, record)
}

func (s *Server) countryHistory(c *gin.Context) {
	name := strings.TrimSpace(c.Param("country"))
	if name == "" {
		abortWithEncoding(c, http.StatusBadRequest, errorInvalidParameters)
		return
	}

	registry := s.countries()
	record, ok := registry.Record(name)
	if !ok {
		abortWithEncoding(c, http.StatusNotFound, errorCountryNotFound)
		return
	}

	history := registry.HistoryOf(record.Country)
	if history == nil {
		history = []schema.CaseRecord{}
	}
	c.JSON(http.StatusOK, gin.H{
		"country": record.Country,
		"history": history,
	})
}
