package sheets

import (
	"context"
	"encoding/pem"
	"fmt"
	"strings"

	"golang.org/x/oauth2/google"
	"golang.org/x/oauth2/jwt"
	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"

	"github.com/csg33k/cotizador/internal/ports"
)

const valueInputUserEntered = "USER_ENTERED"

// Credentials identifies the service account and the target spreadsheet.
type Credentials struct {
	ServiceAccountEmail string
	PrivateKey          string
	SheetID             string
}

func (c Credentials) Configured() bool {
	return c.ServiceAccountEmail != "" && c.PrivateKey != "" && c.SheetID != ""
}

// NewFactory returns a factory that authenticates and builds a fresh client
// on every call.
func NewFactory(creds Credentials) ports.SheetsFactory {
	return func(ctx context.Context) (ports.SheetService, error) {
		svc, err := NewGoogleService(ctx, creds)
		if err != nil {
			return nil, err
		}
		return svc, nil
	}
}

// NewGoogleService authenticates with the service-account key and returns a
// client for creds.SheetID.
func NewGoogleService(ctx context.Context, creds Credentials) (*GoogleService, error) {
	if !creds.Configured() {
		return nil, ports.ErrSheetsNotConfigured
	}
	key := NormalizePrivateKey(creds.PrivateKey)
	if block, _ := pem.Decode([]byte(key)); block == nil {
		return nil, fmt.Errorf("%w: private key is not PEM encoded", ports.ErrSheetsNotConfigured)
	}
	conf := &jwt.Config{
		Email:      creds.ServiceAccountEmail,
		PrivateKey: []byte(key),
		Scopes:     []string{sheetsapi.SpreadsheetsScope},
		TokenURL:   google.JWTTokenURL,
	}
	return NewGoogleServiceWithOptions(ctx, creds.SheetID, option.WithHTTPClient(conf.Client(ctx)))
}

// NewGoogleServiceWithOptions builds a client with caller-supplied transport
// options; tests point it at an httptest server.
func NewGoogleServiceWithOptions(ctx context.Context, sheetID string, opts ...option.ClientOption) (*GoogleService, error) {
	api, err := sheetsapi.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("init sheets client: %w", err)
	}
	return &GoogleService{api: api, sheetID: sheetID}, nil
}

// NormalizePrivateKey turns literal "\n" sequences, as stored in most
// environment files, back into newlines.
func NormalizePrivateKey(key string) string {
	key = strings.Trim(strings.TrimSpace(key), `"`)
	return strings.ReplaceAll(key, `\n`, "\n")
}

// GoogleService implements ports.SheetService on the Sheets v4 API.
type GoogleService struct {
	api     *sheetsapi.Service
	sheetID string
}

func (g *GoogleService) Probe(ctx context.Context) error {
	_, err := g.api.Spreadsheets.Get(g.sheetID).Fields("spreadsheetId").Context(ctx).Do()
	return err
}

func (g *GoogleService) ReadColumn(ctx context.Context, rng string) ([]string, error) {
	resp, err := g.api.Spreadsheets.Values.Get(g.sheetID, rng).MajorDimension("ROWS").Context(ctx).Do()
	if err != nil {
		return nil, err
	}
	col := make([]string, len(resp.Values))
	for i, row := range resp.Values {
		if len(row) > 0 {
			col[i] = fmt.Sprint(row[0])
		}
	}
	return col, nil
}

func (g *GoogleService) UpdateRange(ctx context.Context, rng string, values []string) (string, error) {
	vr := &sheetsapi.ValueRange{Range: rng, MajorDimension: "ROWS", Values: [][]interface{}{cells(values)}}
	resp, err := g.api.Spreadsheets.Values.Update(g.sheetID, rng, vr).
		ValueInputOption(valueInputUserEntered).
		Context(ctx).
		Do()
	if err != nil {
		return "", err
	}
	if resp == nil {
		return "", nil
	}
	return resp.UpdatedRange, nil
}

func (g *GoogleService) AppendRow(ctx context.Context, rng string, values []string) (string, error) {
	vr := &sheetsapi.ValueRange{MajorDimension: "ROWS", Values: [][]interface{}{cells(values)}}
	resp, err := g.api.Spreadsheets.Values.Append(g.sheetID, rng, vr).
		ValueInputOption(valueInputUserEntered).
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	if err != nil {
		return "", err
	}
	if resp == nil || resp.Updates == nil {
		return "", nil
	}
	return resp.Updates.UpdatedRange, nil
}

func cells(values []string) []interface{} {
	out := make([]interface{}, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}
