package app

import (
	"net/http"

	"github.com/enoturismo/recorridos/api"
	"github.com/enoturismo/recorridos/internal/domain"
)

// GetFaqs lists frequently asked questions, optionally only those addressed
// to one kind of recipient.
func (app *Application) GetFaqs(w http.ResponseWriter, r *http.Request, params api.GetFaqsParams) {
	err := app.validator.Struct(params)
	if err != nil {
		app.failedValidationResponse(w, r, err)
		return
	}

	filters := domain.FaqFilters{
		Pagination: toPagination(params.Page, params.PageSize, params.Sort, DefaultSort),
	}

	if params.Recipient != nil {
		filters.Recipient = *params.Recipient
	}

	faqs, metadata, err := app.faqRepo.GetAll(r.Context(), filters)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	resp := api.FaqListResponse{
		Faqs:     make([]api.FaqResponse, len(faqs)),
		Metadata: toApiMetadata(metadata),
	}

	for i, f := range faqs {
		resp.Faqs[i] = api.FaqResponse{
			Id:       f.ID,
			Question: f.Question,
			Answer:   f.Answer,
			Recipient: api.FaqRecipientResponse{
				Id:    f.Recipient.ID,
				Name:  f.Recipient.Name,
				Label: f.Recipient.Label,
			},
			CreatedAt: f.CreatedAt,
		}
	}

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}
