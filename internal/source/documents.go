package source

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	apperrors "fiialert/internal/errors"
	"fiialert/internal/models"
	"fiialert/pkg/utils"
)

// DocumentSource fetches regulatory filings from the disclosure portal.
type DocumentSource struct {
	baseURL string
	client  *http.Client
	policy  utils.RetryPolicy
}

// NewDocumentSource creates a document source.
func NewDocumentSource(baseURL string, opts Options) *DocumentSource {
	return &DocumentSource{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		client:  opts.client(),
		policy:  opts.policy(),
	}
}

// Name returns the source identifier.
func (s *DocumentSource) Name() string {
	return "disclosure-portal"
}

type documentListing struct {
	Data []struct {
		ID            int64  `json:"id"`
		FundName      string `json:"descricaoFundo"`
		TradingCode   string `json:"codigoNegociacao"`
		DocumentType  string `json:"tipoDocumento"`
		DeliveredAt   string `json:"dataEntrega"` // 2006-01-02T15:04:05
		DownloadToken string `json:"token"`
	} `json:"data"`
}

// FetchRecent returns filings delivered since the cursor.
func (s *DocumentSource) FetchRecent(ctx context.Context, since time.Time) ([]models.RawEvent, error) {
	url := fmt.Sprintf("%s/consultarDocumentos?dataInicial=%s", s.baseURL, since.Format("2006-01-02"))

	var listing documentListing
	if err := getJSON(ctx, s.client, s.policy, url, &listing); err != nil {
		return nil, apperrors.NewSourceError(s.Name(), "fetch documents", err)
	}

	events := make([]models.RawEvent, 0, len(listing.Data))
	for _, d := range listing.Data {
		received, err := time.Parse("2006-01-02T15:04:05", d.DeliveredAt)
		if err != nil {
			continue
		}
		events = append(events, models.RawEvent{
			Kind:         models.KindDocumentFiled,
			Ticker:       d.TradingCode,
			LegalName:    d.FundName,
			DocumentID:   fmt.Sprintf("%d", d.ID),
			DocumentType: d.DocumentType,
			DocumentURL:  fmt.Sprintf("%s/downloadDocumento?id=%d", s.baseURL, d.ID),
			ReceivedDate: received,
		})
	}
	return events, nil
}
