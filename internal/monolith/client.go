// Package monolith is the GraphQL client for the inacons backend, the
// system of record for fixed assets and their operational state.
package monolith

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/inacons/activos-bff/internal/config"
)

type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

func NewClient(cfg *config.Config) *Client {
	timeout := cfg.MonolithTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL: cfg.MonolithURL,
		apiKey:  cfg.MonolithAPIKey,
		http:    &http.Client{Timeout: timeout},
	}
}

type graphqlRequest struct {
	Query     string                 `json:"query"`
	Variables map[string]interface{} `json:"variables,omitempty"`
}

type graphqlResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

// execute posts one GraphQL operation and decodes the data payload into out.
func (c *Client) execute(ctx context.Context, query string, variables map[string]interface{}, out interface{}) error {
	payload, err := json.Marshal(graphqlRequest{Query: query, Variables: variables})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("monolith request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("monolith API error: status %d", resp.StatusCode)
	}

	var gqlResp graphqlResponse
	if err := json.Unmarshal(body, &gqlResp); err != nil {
		return fmt.Errorf("invalid monolith response: %w", err)
	}
	if len(gqlResp.Errors) > 0 {
		msgs := make([]string, len(gqlResp.Errors))
		for i, e := range gqlResp.Errors {
			msgs[i] = e.Message
		}
		return errors.New("monolith: " + strings.Join(msgs, "; "))
	}
	if out != nil && gqlResp.Data != nil {
		return json.Unmarshal(gqlResp.Data, out)
	}
	return nil
}

// AssetSummary is the trimmed asset shape returned by monolith operations.
type AssetSummary struct {
	ID            string `json:"id"`
	Code          string `json:"codigo"`
	Name          string `json:"nombre"`
	Description   string `json:"descripcion"`
	State         string `json:"estado_activo_fijo"`
	LastCheckedAt string `json:"fecha_checked_activo_fijo"`
}

type PageInfo struct {
	Page      int `json:"page"`
	Pages     int `json:"pages"`
	ItemsPage int `json:"itemsPage"`
	Total     int `json:"total"`
}

type AssetPage struct {
	Info   PageInfo       `json:"info"`
	Assets []AssetSummary `json:"recursos"`
}

type AssetFilters struct {
	Page       int
	ItemsPage  int
	SearchTerm string
	State      string
}

// SetAssetState updates an asset's warehouse operational state. There
// is no remote undo; compensation is re-invoking with the prior code.
func (c *Client) SetAssetState(ctx context.Context, assetID, stateCode string) (*AssetSummary, error) {
	const mutation = `
		mutation UpdateEstadoRecursoAlmacen($id_recurso: ID!, $estado_recurso_almacen: String!) {
			updateEstadoRecursoAlmacen(
				id_recurso: $id_recurso
				estado_recurso_almacen: $estado_recurso_almacen
			) {
				id
				codigo
				nombre
				estado_activo_fijo
			}
		}`

	var data struct {
		Updated AssetSummary `json:"updateEstadoRecursoAlmacen"`
	}
	err := c.execute(ctx, mutation, map[string]interface{}{
		"id_recurso":             assetID,
		"estado_recurso_almacen": stateCode,
	}, &data)
	if err != nil {
		return nil, fmt.Errorf("failed to update state of asset %s: %w", assetID, err)
	}
	return &data.Updated, nil
}

// ListAssets forwards a paginated fixed-asset listing to the monolith.
func (c *Client) ListAssets(ctx context.Context, filters AssetFilters) (*AssetPage, error) {
	const query = `
		query ListRecursosActivosFijos($page: Int, $itemsPage: Int, $searchTerm: String, $estado_activo_fijo: String, $activo_fijo: Boolean) {
			listRecursoPagination(
				page: $page
				itemsPage: $itemsPage
				searchTerm: $searchTerm
				estado_activo_fijo: $estado_activo_fijo
				activo_fijo: $activo_fijo
			) {
				info { page pages itemsPage total }
				recursos {
					id
					codigo
					nombre
					descripcion
					estado_activo_fijo
					fecha_checked_activo_fijo
				}
			}
		}`

	if filters.Page < 1 {
		filters.Page = 1
	}
	if filters.ItemsPage < 1 {
		filters.ItemsPage = 20
	}

	var data struct {
		Listing AssetPage `json:"listRecursoPagination"`
	}
	err := c.execute(ctx, query, map[string]interface{}{
		"page":               filters.Page,
		"itemsPage":          filters.ItemsPage,
		"searchTerm":         filters.SearchTerm,
		"estado_activo_fijo": filters.State,
		"activo_fijo":        true,
	}, &data)
	if err != nil {
		return nil, fmt.Errorf("failed to list assets: %w", err)
	}
	return &data.Listing, nil
}

// GetAsset fetches one fixed asset by id. Returns nil when the monolith
// has no such asset.
func (c *Client) GetAsset(ctx context.Context, id string) (*AssetSummary, error) {
	const query = `
		query GetRecurso($id: ID!) {
			getRecurso(id: $id) {
				id
				codigo
				nombre
				descripcion
				estado_activo_fijo
				fecha_checked_activo_fijo
			}
		}`

	var data struct {
		Asset *AssetSummary `json:"getRecurso"`
	}
	if err := c.execute(ctx, query, map[string]interface{}{"id": id}, &data); err != nil {
		return nil, fmt.Errorf("failed to get asset %s: %w", id, err)
	}
	return data.Asset, nil
}

// Ping checks monolith reachability with the cheapest possible query.
func (c *Client) Ping(ctx context.Context) error {
	return c.execute(ctx, `query { __typename }`, nil, nil)
}
