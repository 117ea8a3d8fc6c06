package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	model2 "github.com/onramp-pay/onramp/api/model"
)

func (a Api) CreateGatewayAccount(c *gin.Context) {
	var newAccount model2.CreateGatewayAccount
	if err := c.ShouldBindJSON(&newAccount); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := newAccount.ValidateCreateGatewayAccount(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": err.Error()})
		return
	}

	resp, err := a.onramp.CreateGatewayAccount(c.Request.Context(), newAccount.ToGatewayAccount())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (a Api) GetGatewayAccount(c *gin.Context) {
	account, err := a.onramp.GetGatewayAccount(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, account)
}

func (a Api) UpdateGatewayAccount(c *gin.Context) {
	var update model2.UpdateGatewayAccount
	if err := c.ShouldBindJSON(&update); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	account, err := a.onramp.GetGatewayAccount(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	update.ApplyTo(account)
	if err := a.onramp.UpdateGatewayAccount(c.Request.Context(), account); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, account)
}
