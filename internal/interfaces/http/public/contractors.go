package public

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/civictechdc/electrify-dmv/api/internal/interfaces/http/common"
	publicapp "github.com/civictechdc/electrify-dmv/api/internal/public/application"
)

func (h *Handler) contractorListHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), common.RequestTimeout)
		defer cancel()

		query := r.URL.Query()
		page, _ := common.ParsePositiveInt(query.Get("page"), 1)

		filter := publicapp.ContractorFilter{
			State:          strings.TrimSpace(query.Get("state")),
			Services:       common.SplitList(query["service"]),
			Certifications: common.SplitList(query["certification"]),
			Zip:            strings.TrimSpace(query.Get("zip")),
		}
		paging := publicapp.Paging{Page: page, PageSize: h.pageSize}

		result, err := h.contractors.List(ctx, filter, paging)
		if err != nil {
			h.logger.Printf("contractor list fetch failed: %v", err)
			common.WriteError(h.logger, w, http.StatusInternalServerError, "failed to load contractors")
			return
		}

		items := make([]contractorResponse, 0, len(result.Items))
		for _, c := range result.Items {
			items = append(items, buildContractorResponse(c))
		}
		common.WriteJSON(h.logger, w, http.StatusOK, contractorListResponse{
			Items:       items,
			TotalPages:  result.TotalPages,
			CurrentPage: result.CurrentPage,
			Total:       result.Total,
		})
	}
}

func (h *Handler) contractorDetailHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), common.RequestTimeout)
		defer cancel()

		idParam := strings.TrimSpace(chi.URLParam(r, "id"))
		if _, err := primitive.ObjectIDFromHex(idParam); err != nil {
			common.WriteError(h.logger, w, http.StatusBadRequest, "invalid contractor id")
			return
		}

		contractor, err := h.contractors.Detail(ctx, idParam)
		if err != nil {
			h.logger.Printf("contractor detail fetch failed id=%q err=%v", idParam, err)
			common.WriteError(h.logger, w, http.StatusInternalServerError, "failed to load contractor")
			return
		}
		if contractor == nil {
			common.WriteError(h.logger, w, http.StatusNotFound, "contractor not found")
			return
		}

		common.WriteJSON(h.logger, w, http.StatusOK, buildContractorResponse(*contractor))
	}
}

func (h *Handler) taxonomyHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		common.WriteJSON(h.logger, w, http.StatusOK, taxonomyResponse{
			States:         h.vocabulary.States,
			Services:       h.vocabulary.Services,
			Certifications: h.vocabulary.Certifications,
		})
	}
}
