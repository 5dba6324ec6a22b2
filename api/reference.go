package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (s *Server) getConstants(c *gin.Context) {
	c.JSON(http.StatusOK, s.reference.Constants)
}

func (s *Server) getAgeData(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"age_data": s.reference.AgeData,
	})
}

func (s *Server) getMortalityByAge(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"mortality": s.reference.Mortality,
	})
}
