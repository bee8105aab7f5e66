package httpapi

import (
	"net/http"

	"chickstage-backend-go/internal/models"
	"chickstage-backend-go/internal/records"
)

type MeResponse struct {
	User    models.User    `json:"user"`
	Profile records.Record `json:"profile"`
}

func (s *Server) Me(w http.ResponseWriter, r *http.Request) {
	userID := CurrentUserID(r)
	user, err := s.Accounts.FindUser(r.Context(), userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	profile, err := s.Accounts.Profile(r.Context(), userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, MeResponse{User: user, Profile: profile})
}
