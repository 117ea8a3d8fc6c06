package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	model2 "github.com/onramp-pay/onramp/api/model"
)

func (a Api) StartSwitch(c *gin.Context) {
	var body model2.StartSwitch
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := body.ValidateStartSwitch(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": err.Error()})
		return
	}

	credential, err := a.onramp.StartSwitch(c.Request.Context(), c.Param("id"), body.Provider)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, credential)
}

func (a Api) GetSwitchTasks(c *gin.Context) {
	tasks, err := a.onramp.SwitchTasks(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"tasks": tasks})
}

func (a Api) RecordVerificationPayment(c *gin.Context) {
	var body model2.VerificationPaymentRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := body.ValidateVerificationPayment(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": err.Error()})
		return
	}

	credential, err := a.onramp.RecordVerificationPayment(c.Request.Context(), c.Param("id"), body.ToPayload())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, credential)
}

func (a Api) FinalizeSwitch(c *gin.Context) {
	credential, err := a.onramp.FinalizeSwitch(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, credential)
}
