package admin

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"

	adminapp "github.com/civictechdc/electrify-dmv/api/internal/admin/application"
	admindomain "github.com/civictechdc/electrify-dmv/api/internal/admin/domain"
	"github.com/civictechdc/electrify-dmv/api/internal/interfaces/http/common"
)

func (h *Handler) contractorSearchHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), common.RequestTimeout)
		defer cancel()

		queryValues := r.URL.Query()
		status, err := admindomain.NewStatus(queryValues.Get("status"))
		if err != nil {
			common.WriteError(h.logger, w, http.StatusBadRequest, "status must be draft or published")
			return
		}
		keyword := strings.TrimSpace(queryValues.Get("keyword"))
		limit, _ := common.ParsePositiveInt(queryValues.Get("limit"), 20)
		if limit > common.MaxAdminListLimit {
			limit = common.MaxAdminListLimit
		}

		contractors, err := h.contractorService.List(ctx, adminapp.ContractorFilter{Status: status, Keyword: keyword, Limit: limit})
		if err != nil {
			h.logger.Printf("admin contractor search failed: %v", err)
			common.WriteError(h.logger, w, http.StatusInternalServerError, "failed to load contractors")
			return
		}

		items := make([]adminContractorResponse, 0, len(contractors))
		for _, c := range contractors {
			items = append(items, adminContractorToResponse(c))
		}

		common.WriteJSON(h.logger, w, http.StatusOK, map[string]any{"items": items})
	}
}

func (h *Handler) contractorDetailHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		idParam := strings.TrimSpace(chi.URLParam(r, "id"))
		objectID, err := primitive.ObjectIDFromHex(idParam)
		if err != nil {
			common.WriteError(h.logger, w, http.StatusBadRequest, "invalid contractor id")
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), common.RequestTimeout)
		defer cancel()

		contractor, err := h.contractorService.Detail(ctx, objectID.Hex())
		if err != nil {
			h.logger.Printf("admin contractor detail fetch failed id=%s err=%v", idParam, err)
			common.WriteError(h.logger, w, http.StatusInternalServerError, "failed to load contractor")
			return
		}
		if contractor == nil {
			common.WriteError(h.logger, w, http.StatusNotFound, "contractor not found")
			return
		}

		common.WriteJSON(h.logger, w, http.StatusOK, adminContractorToResponse(*contractor))
	}
}

func (h *Handler) contractorPublishHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		idParam := strings.TrimSpace(chi.URLParam(r, "id"))
		objectID, err := primitive.ObjectIDFromHex(idParam)
		if err != nil {
			common.WriteError(h.logger, w, http.StatusBadRequest, "invalid contractor id")
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), common.RequestTimeout)
		defer cancel()

		contractor, err := h.contractorService.Publish(ctx, objectID.Hex())
		if errors.Is(err, adminapp.ErrNotFound) {
			common.WriteError(h.logger, w, http.StatusNotFound, "contractor not found")
			return
		}
		if err != nil {
			h.logger.Printf("admin contractor publish failed id=%s err=%v", idParam, err)
			common.WriteError(h.logger, w, http.StatusInternalServerError, "failed to publish contractor")
			return
		}

		if user, ok := common.UserFromContext(r.Context()); ok {
			h.logger.Printf("contractor %s published by %s", contractor.ID, user.ID)
		}
		common.WriteJSON(h.logger, w, http.StatusOK, adminContractorToResponse(*contractor))
	}
}
