package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/you/adminconsole/domain"
)

type PolicyHandlers struct{ policies domain.PolicyService }

func NewPolicyHandlers(policies domain.PolicyService) *PolicyHandlers {
	return &PolicyHandlers{policies: policies}
}

type policyReq struct {
	Role   string `json:"role" binding:"required"`
	Screen string `json:"screen" binding:"required"`
	Action string `json:"action" binding:"required"`
}

func (h *PolicyHandlers) List(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"data": h.policies.GetPolicies()})
}

func (h *PolicyHandlers) Add(c *gin.Context) {
	var r policyReq
	if err := c.ShouldBindJSON(&r); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.policies.AddPolicy(r.Role, r.Screen, r.Action); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "not added"})
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *PolicyHandlers) Remove(c *gin.Context) {
	var r policyReq
	if err := c.ShouldBindJSON(&r); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.policies.RemovePolicy(r.Role, r.Screen, r.Action); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "not removed"})
		return
	}
	c.Status(http.StatusNoContent)
}
