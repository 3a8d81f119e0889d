package bot

import (
	"strconv"
	"strings"
	"time"

	"vie_bot/internal/domain"
)

// Interaction is one slash command invocation.
type Interaction struct {
	UserID  string            `json:"user_id"`
	Command string            `json:"command"`
	Options map[string]string `json:"options,omitempty"`
}

func (in Interaction) opt(name string) string {
	return strings.TrimSpace(in.Options[name])
}

func (in Interaction) required(name string) (string, error) {
	v := in.opt(name)
	if v == "" {
		return "", domain.Fail(domain.ErrInvalidTarget, "missing option %q", name)
	}
	return v, nil
}

// amount parses a V amount. "all" is not accepted.
func (in Interaction) amount(name string) (int64, error) {
	v, err := in.required(name)
	if err != nil {
		return 0, err
	}
	n, err := strconv.ParseInt(strings.ReplaceAll(v, ".", ""), 10, 64)
	if err != nil {
		return 0, domain.Fail(domain.ErrInvalidTarget, "%q is not a number", v)
	}
	return n, nil
}

// quantity parses an optional count defaulting to 1.
func (in Interaction) quantity(name string) (int64, error) {
	if in.opt(name) == "" {
		return 1, nil
	}
	return in.amount(name)
}

// user reads a user option, accepting a raw id or a <@id> mention.
func (in Interaction) user(name string) string {
	v := in.opt(name)
	v = strings.TrimPrefix(v, "<@")
	v = strings.TrimPrefix(v, "!")
	return strings.TrimSuffix(v, ">")
}

// Field is a labelled value of a reply.
type Field struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Reply is the plain-data answer to an interaction.
type Reply struct {
	Title     string  `json:"title,omitempty"`
	Content   string  `json:"content"`
	Fields    []Field `json:"fields,omitempty"`
	Ephemeral bool    `json:"ephemeral,omitempty"`
	Failure   string  `json:"failure,omitempty"`
	Data      any     `json:"data,omitempty"`
}

func (r *Reply) add(name, value string) {
	r.Fields = append(r.Fields, Field{Name: name, Value: value})
}

// Event is a notable action broadcast to the activity feed.
type Event struct {
	Type    string    `json:"type"`
	UserID  string    `json:"user_id"`
	Message string    `json:"message"`
	Amount  int64     `json:"amount,omitempty"`
	At      time.Time `json:"at"`
}

// Publisher receives feed events. It must not block.
type Publisher interface {
	Publish(ev Event)
}
