package mailerrepo

import "context"

type Mail struct {
	To      string
	Name    string
	Subject string
	Body    string
}

type Repo interface {
	Send(ctx context.Context, m Mail) error
}
