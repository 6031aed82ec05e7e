package remote

import (
	"context"
	"fmt"
	"net/http"

	"github.com/Olatundeadedeji/streamcati/pkg/model"
)

func (c *Client) ListContacts(ctx context.Context) ([]model.Contact, error) {
	var out page[model.Contact]
	if err := c.doJSON(ctx, "list_contacts", http.MethodGet, "/contacts/", nil, nil, &out); err != nil {
		return nil, fmt.Errorf("list contacts: %w", err)
	}
	return out.Items, nil
}

func (c *Client) GetContact(ctx context.Context, id int64) (*model.Contact, error) {
	var ct model.Contact
	if err := c.doJSON(ctx, "get_contact", http.MethodGet, fmt.Sprintf("/contacts/%d/", id), nil, nil, &ct); err != nil {
		return nil, fmt.Errorf("get contact %d: %w", id, err)
	}
	return &ct, nil
}

func (c *Client) CreateContact(ctx context.Context, req model.CreateContactReq) (*model.Contact, error) {
	var ct model.Contact
	if err := c.doJSON(ctx, "create_contact", http.MethodPost, "/contacts/", nil, req, &ct); err != nil {
		return nil, fmt.Errorf("create contact: %w", err)
	}
	return &ct, nil
}

func (c *Client) PatchContact(ctx context.Context, id int64, patch model.PatchContactReq) (*model.Contact, error) {
	var ct model.Contact
	if err := c.doJSON(ctx, "patch_contact", http.MethodPatch, fmt.Sprintf("/contacts/%d/", id), nil, patch, &ct); err != nil {
		return nil, fmt.Errorf("patch contact %d: %w", id, err)
	}
	return &ct, nil
}

func (c *Client) DeleteContact(ctx context.Context, id int64) error {
	if err := c.doJSON(ctx, "delete_contact", http.MethodDelete, fmt.Sprintf("/contacts/%d/", id), nil, nil, nil); err != nil {
		return fmt.Errorf("delete contact %d: %w", id, err)
	}
	return nil
}
