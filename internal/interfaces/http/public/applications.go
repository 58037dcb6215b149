package public

import (
	"context"
	"encoding/json"
	"fmt"
	"mime"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/civictechdc/electrify-dmv/api/internal/events"
	"github.com/civictechdc/electrify-dmv/api/internal/interfaces/http/common"
	"github.com/civictechdc/electrify-dmv/api/internal/notification"
	"github.com/civictechdc/electrify-dmv/api/internal/observability"
	publicapp "github.com/civictechdc/electrify-dmv/api/internal/public/application"
	"github.com/civictechdc/electrify-dmv/api/internal/public/domain"
)

const afterSubmitTimeout = 30 * time.Second

// applicationCreateHandler accepts the apply form either form-encoded, in
// which case success redirects to the applied page, or as JSON, in which
// case the stored draft is returned.
func (h *Handler) applicationCreateHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, common.MaxApplicationBody)
		defer r.Body.Close()

		form, isJSON, err := decodeApplication(r)
		if err != nil {
			common.WriteError(h.logger, w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), common.RequestTimeout)
		defer cancel()

		created, fieldErrors, err := h.applications.Submit(ctx, form)
		if err != nil {
			h.observe(observability.OutcomeFailed)
			h.logger.Printf("application save failed: %v", err)
			common.WriteError(h.logger, w, http.StatusInternalServerError, "failed to save application")
			return
		}
		if len(fieldErrors) > 0 {
			h.observe(observability.OutcomeRejected)
			common.WriteJSON(h.logger, w, http.StatusUnprocessableEntity, fieldErrorsResponse{Errors: fieldErrors})
			return
		}
		h.observe(observability.OutcomeAccepted)

		contractor := *created
		h.dispatch(func() { h.afterSubmit(contractor) })

		if !isJSON {
			http.Redirect(w, r, h.appliedRedirectURL, http.StatusSeeOther)
			return
		}
		common.WriteJSON(h.logger, w, http.StatusCreated, applicationResponse{
			Status:     "ok",
			Contractor: buildContractorResponse(contractor),
		})
	}
}

// afterSubmit alerts the admins and announces the application. It runs
// detached from the request.
func (h *Handler) afterSubmit(c domain.Contractor) {
	ctx, cancel := context.WithTimeout(context.Background(), afterSubmitTimeout)
	defer cancel()

	if h.notifier != nil {
		h.notifier.NotifyApplication(ctx, notification.Application{
			ContractorID: c.ID,
			Name:         c.Name,
			Email:        c.Email,
			Phone:        c.Phone,
			Website:      c.Website,
			City:         c.City,
			State:        c.State,
			StatesServed: c.StateNames(),
			Services:     c.ServiceNames(),
		})
	}

	event := events.NewContractorApplied(c.ID, c.Name, c.StateNames(), c.ServiceNames())
	if err := h.events.Publish(ctx, event); err != nil {
		h.logger.Printf("publish %s failed: %v", event.Type, err)
	}
}

func decodeApplication(r *http.Request) (publicapp.ApplicationForm, bool, error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))

	if mediaType == "application/json" {
		var req applicationRequest
		decoder := json.NewDecoder(r.Body)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&req); err != nil {
			return publicapp.ApplicationForm{}, true, err
		}
		return publicapp.ApplicationForm{
			Name:           req.Name,
			Email:          req.Email,
			Phone:          req.Phone,
			Website:        req.Website,
			AddressLine1:   req.AddressLine1,
			AddressLine2:   req.AddressLine2,
			City:           req.City,
			State:          req.State,
			Zip:            req.Zip,
			StatesServed:   req.StatesServed,
			Services:       req.Services,
			Certifications: req.Certifications,
		}, true, nil
	}

	if mediaType == "multipart/form-data" {
		if err := r.ParseMultipartForm(common.MaxApplicationBody); err != nil {
			return publicapp.ApplicationForm{}, false, err
		}
	} else if err := r.ParseForm(); err != nil {
		return publicapp.ApplicationForm{}, false, err
	}

	values := r.PostForm
	return publicapp.ApplicationForm{
		Name:           values.Get("name"),
		Email:          values.Get("email"),
		Phone:          values.Get("phone"),
		Website:        values.Get("website"),
		AddressLine1:   values.Get("addressLine1"),
		AddressLine2:   values.Get("addressLine2"),
		City:           values.Get("city"),
		State:          values.Get("state"),
		Zip:            values.Get("zip"),
		StatesServed:   collectSelections(values, "state_served_", "statesServed"),
		Services:       collectSelections(values, "service_", "services"),
		Certifications: collectSelections(values, "certification_", "certifications"),
	}, false, nil
}

// collectSelections gathers checkbox values posted as prefix0, prefix1, ...
// in index order, followed by any values of the plain list key.
func collectSelections(values map[string][]string, prefix, listKey string) []string {
	type indexed struct {
		index int
		value string
	}
	found := make([]indexed, 0)
	for key, vals := range values {
		if !strings.HasPrefix(key, prefix) || len(vals) == 0 {
			continue
		}
		index, err := strconv.Atoi(strings.TrimPrefix(key, prefix))
		if err != nil {
			continue
		}
		found = append(found, indexed{index: index, value: vals[0]})
	}
	sort.Slice(found, func(i, j int) bool { return found[i].index < found[j].index })

	result := make([]string, 0, len(found))
	for _, f := range found {
		result = append(result, f.value)
	}
	return append(result, values[listKey]...)
}
