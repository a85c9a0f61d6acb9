// Package praise turns parsed praise commands into Praise records.
package praise

import (
	"context"
	"errors"
	"fmt"

	"github.com/masoncj/praisebot/internal/models"
	"github.com/masoncj/praisebot/internal/parse"
)

// ErrUnknownIdentity is returned by resolvers for identifiers they do not know.
var ErrUnknownIdentity = errors.New("unknown identity")

// Resolver looks up wrapped references in the chat directory. Calls may
// block on network I/O; timeouts and retries are the resolver's concern.
type Resolver interface {
	ResolveUser(ctx context.Context, id string) (models.Identity, error)
	ResolveChannel(ctx context.Context, id string) (models.Identity, error)
}

// IdentityResolutionError reports a wrapped reference the resolver could
// not resolve. No record is produced when it occurs.
type IdentityResolutionError struct {
	Ref string // reference as written, e.g. "<@U123>"
	ID  string
	Err error
}

func (e *IdentityResolutionError) Error() string {
	return fmt.Sprintf("resolve %s: %v", e.Ref, e.Err)
}

func (e *IdentityResolutionError) Unwrap() error {
	return e.Err
}

// ParseMessage parses text and builds its Praise. Variables are seeded
// from defaults and overridden by an in-text assignment.
func ParseMessage(ctx context.Context, text string, resolver Resolver, defaults map[string]string) (*models.Praise, error) {
	expr, err := parse.Parse(text)
	if err != nil {
		return nil, err
	}
	return Build(ctx, expr, resolver, defaults)
}

// Build walks expr once and populates a Praise. Each wrapped reference
// costs exactly one resolver call; bare references never reach it.
func Build(ctx context.Context, expr *parse.Expression, resolver Resolver, defaults map[string]string) (*models.Praise, error) {
	if expr == nil {
		return nil, fmt.Errorf("expression is required")
	}

	p := models.NewPraise(defaults)
	v := &visitor{ctx: ctx, resolver: resolver, praise: p}

	if err := v.visitBotUser(expr.BotUser); err != nil {
		return nil, err
	}
	p.TemplateName = expr.TemplateName
	if err := v.visitRecipient(expr.Recipient); err != nil {
		return nil, err
	}
	if expr.Message != nil {
		v.visitMessage(expr.Message)
	}

	return p, nil
}

type visitor struct {
	ctx      context.Context
	resolver Resolver
	praise   *models.Praise
}

func (v *visitor) visitBotUser(ref *parse.UserRef) error {
	if ref == nil {
		return fmt.Errorf("bot user is required")
	}
	id, err := v.resolve(ref)
	if err != nil {
		return err
	}
	v.praise.BotIdentity = id
	v.praise.BotUser, v.praise.BotUserName = names(id, ref)
	return nil
}

func (v *visitor) visitRecipient(ref parse.Ref) error {
	if ref == nil {
		return fmt.Errorf("recipient is required")
	}
	id, err := v.resolve(ref)
	if err != nil {
		return err
	}
	v.praise.RecipientIdentity = id
	v.praise.Recipient, v.praise.RecipientName = names(id, ref)
	v.praise.RecipientKind = models.RecipientKindUser
	if _, ok := ref.(*parse.ChannelRef); ok {
		v.praise.RecipientKind = models.RecipientKindChannel
	}
	return nil
}

func (v *visitor) visitMessage(msg *parse.Message) {
	v.praise.Message = msg.Raw
	v.praise.HasFor = msg.HasFor
	v.praise.Text = msg.Text.Reason()

	if assignment, ok := msg.Text.(*parse.ReasonWithVariable); ok {
		v.praise.HasWith = true
		v.praise.Variables[assignment.Key] = assignment.Value
	}
}

func (v *visitor) resolve(ref parse.Ref) (models.Identity, error) {
	if !ref.Wrapped() {
		return models.BareIdentity(ref.Literal()), nil
	}
	if v.resolver == nil {
		return models.Identity{}, &IdentityResolutionError{
			Ref: ref.Literal(),
			ID:  ref.Ident(),
			Err: errors.New("no resolver configured"),
		}
	}

	var (
		id  models.Identity
		err error
	)
	switch ref.(type) {
	case *parse.ChannelRef:
		id, err = v.resolver.ResolveChannel(v.ctx, ref.Ident())
	default:
		id, err = v.resolver.ResolveUser(v.ctx, ref.Ident())
	}
	if err != nil {
		return models.Identity{}, &IdentityResolutionError{Ref: ref.Literal(), ID: ref.Ident(), Err: err}
	}
	return id, nil
}

// names returns the short and full names shown for id. Resolvers may leave
// either blank; the id and then the reference as written stand in.
func names(id models.Identity, ref parse.Ref) (display, full string) {
	display = id.DisplayName
	if display == "" {
		display = id.ID
	}
	if display == "" {
		display = ref.Literal()
	}
	full = id.FullName
	if full == "" {
		full = display
	}
	return display, full
}
