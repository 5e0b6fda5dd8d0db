package adapter

import (
	"context"

	"github.com/m-mizutani/curriculo/pkg/model"
	"github.com/m-mizutani/goerr/v2"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// Sheets reads cell ranges from Google Sheets
type Sheets interface {
	// GetValues returns the cells of range in the spreadsheet as a RawTable
	GetValues(ctx context.Context, spreadsheetID, rng string) (model.RawTable, error)
}

type sheetsClient struct {
	service *sheets.Service
}

// NewSheets creates a read-only Sheets client authenticated with the given
// service-account key file. Extra client options are appended after the
// credential options, which lets tests point the client at a fake endpoint.
func NewSheets(ctx context.Context, credentialPath string, opts ...option.ClientOption) (Sheets, error) {
	clientOpts := []option.ClientOption{
		option.WithScopes(sheets.SpreadsheetsReadonlyScope),
	}
	if credentialPath != "" {
		clientOpts = append(clientOpts, option.WithCredentialsFile(credentialPath))
	}
	clientOpts = append(clientOpts, opts...)

	service, err := sheets.NewService(ctx, clientOpts...)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create sheets service",
			goerr.V("credential_path", credentialPath))
	}

	return &sheetsClient{
		service: service,
	}, nil
}

func (s *sheetsClient) GetValues(ctx context.Context, spreadsheetID, rng string) (model.RawTable, error) {
	resp, err := s.service.Spreadsheets.Values.Get(spreadsheetID, rng).Context(ctx).Do()
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get sheet values",
			goerr.V("spreadsheet_id", spreadsheetID),
			goerr.V("range", rng))
	}

	return model.NewRawTable(resp.Values), nil
}
