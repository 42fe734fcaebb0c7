package api

import (
	"net/http"

	"whatsapp-console/internal/store"

	"github.com/gin-gonic/gin"
)

type ContactHandler struct {
	store *store.Store
}

func NewContactHandler(st *store.Store) *ContactHandler {
	return &ContactHandler{store: st}
}

func (h *ContactHandler) GetContacts(c *gin.Context) {
	contacts, err := h.store.ListContacts()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch contacts"})
		return
	}
	c.JSON(http.StatusOK, contacts)
}

func (h *ContactHandler) GetContact(c *gin.Context) {
	contact, err := h.store.GetContact(c.Param("id"))
	if err != nil {
		if err == store.ErrNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Contact not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch contact"})
		return
	}
	c.JSON(http.StatusOK, contact)
}

type CreateContactRequest struct {
	PhoneNumber string  `json:"phoneNumber" binding:"required"`
	Name        *string `json:"name"`
}

// CreateContact is an upsert keyed on phone number: an existing contact is
// returned with 200 instead of creating a duplicate.
func (h *ContactHandler) CreateContact(c *gin.Context) {
	var req CreateContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	contact, created, err := h.store.UpsertContact(req.PhoneNumber, req.Name)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create contact"})
		return
	}
	if !created {
		c.JSON(http.StatusOK, contact)
		return
	}
	c.JSON(http.StatusCreated, contact)
}
