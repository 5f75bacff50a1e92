package handlers

import (
	"errors"
	"net/http"

	"github.com/hoopstack/hoops-manager/middleware"
	"github.com/hoopstack/hoops-manager/services"
)

type AccessHandler struct {
	accessService services.AccessService
}

func NewAccessHandler(as services.AccessService) *AccessHandler {
	return &AccessHandler{accessService: as}
}

type grantAccessInput struct {
	Username string `json:"username"`
}

func (h *AccessHandler) Grant(w http.ResponseWriter, r *http.Request) {
	currentUserID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "authentication required")
		return
	}
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input grantAccessInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if input.Username == "" {
		badRequestResponse(w, r, errors.New("username is required"))
		return
	}

	access, err := h.accessService.Grant(r.Context(), tournamentID, currentUserID, input.Username)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"access": access}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *AccessHandler) List(w http.ResponseWriter, r *http.Request) {
	currentUserID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "authentication required")
		return
	}
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	grants, err := h.accessService.ListGrants(r.Context(), tournamentID, currentUserID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"grants": grants}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *AccessHandler) Revoke(w http.ResponseWriter, r *http.Request) {
	currentUserID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "authentication required")
		return
	}
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	granteeID, err := getIDFromURL(r, "userID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.accessService.Revoke(r.Context(), tournamentID, currentUserID, granteeID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
