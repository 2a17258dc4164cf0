package pushrepo

import "context"

type Message struct {
	Tokens []string
	Title  string
	Body   string
	Data   map[string]string
}

type Repo interface {
	Send(ctx context.Context, msg Message) error
}
