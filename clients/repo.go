package clients

import "errors"

var ErrNotFound = errors.New("client not found")

type Repo interface {
	Upsert(client *Client) error
	Get(clientID string) (*Client, error)
	Delete(clientID string) error
}
