package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/Davidlouiz/passerelle-vhf/pkg/models"
)

// GetHistory retrieves a page of the transmission history. params carries
// limit, offset and the filters.
func (c *Client) GetHistory(ctx context.Context, params url.Values) (*models.HistoryPage, error) {
	var page models.HistoryPage
	if err := c.call(ctx, request{method: http.MethodGet, path: "/tx/history", query: params}, &page); err != nil {
		return nil, err
	}
	if page.Results == nil {
		page.Results = []models.TransmissionRecord{}
	}
	return &page, nil
}

// GetTxStats aggregates the transmissions of the last hours
func (c *Client) GetTxStats(ctx context.Context, hours int) (*models.TxStats, error) {
	params := url.Values{}
	params.Set("hours", strconv.Itoa(hours))

	var stats models.TxStats
	if err := c.call(ctx, request{method: http.MethodGet, path: "/tx/stats", query: params}, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}
