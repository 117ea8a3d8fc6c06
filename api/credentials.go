package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	model2 "github.com/onramp-pay/onramp/api/model"
)

func (a Api) CreateCredential(c *gin.Context) {
	credential, err := a.onramp.CreateCredential(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, credential)
}

func (a Api) GetCredentials(c *gin.Context) {
	account, err := a.onramp.GetGatewayAccount(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"credentials": account.Credentials})
}

func (a Api) GetCredential(c *gin.Context) {
	credential, err := a.onramp.GetCredential(c.Request.Context(), c.Param("id"), c.Param("credential_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, credential)
}

func (a Api) GetTasks(c *gin.Context) {
	tasks, err := a.onramp.Tasks(c.Request.Context(), c.Param("id"), c.Param("credential_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"tasks": tasks})
}

func (a Api) UpdateTaskData(c *gin.Context) {
	var taskData model2.TaskData
	if err := c.ShouldBindJSON(&taskData); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := taskData.ValidateTaskData(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": err.Error()})
		return
	}

	payload, err := taskData.ToPayload()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	credential, err := a.onramp.UpdateTaskData(c.Request.Context(), c.Param("id"), c.Param("credential_id"), payload)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, credential)
}

func (a Api) ActivateCredential(c *gin.Context) {
	credential, err := a.onramp.Activate(c.Request.Context(), c.Param("id"), c.Param("credential_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, credential)
}
