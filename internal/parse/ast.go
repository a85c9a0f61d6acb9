package parse

// Expression is the root of a parsed praise command.
type Expression struct {
	BotUser      *UserRef
	TemplateName string
	Recipient    Ref
	Message      *Message // nil when the reason clause is omitted
}

// Ref is a reference to a user or channel, either wrapped (<@id>, <#id>)
// or bare (@name, #name).
type Ref interface {
	// Wrapped reports whether the reference carries a directory identifier.
	Wrapped() bool
	// Ident returns the identifier or name without sigils.
	Ident() string
	// Literal returns the reference exactly as written.
	Literal() string

	ref()
}

// UserRef references a user or bot.
type UserRef struct {
	IsWrapped bool
	ID        string
	Label     string // optional "|label" part of a wrapped reference
	Raw       string
}

func (r *UserRef) Wrapped() bool   { return r.IsWrapped }
func (r *UserRef) Ident() string   { return r.ID }
func (r *UserRef) Literal() string { return r.Raw }
func (*UserRef) ref()              {}

// ChannelRef references a channel.
type ChannelRef struct {
	IsWrapped bool
	ID        string
	Label     string
	Raw       string
}

func (r *ChannelRef) Wrapped() bool   { return r.IsWrapped }
func (r *ChannelRef) Ident() string   { return r.ID }
func (r *ChannelRef) Literal() string { return r.Raw }
func (*ChannelRef) ref()              {}

// Message is the reason clause following the recipient.
type Message struct {
	HasFor bool
	// Raw is the clause as written, from the optional "for" up to the end
	// of the reason. A trailing variable assignment is not part of it.
	Raw  string
	Text Text
}

// Text is the reason, with or without a trailing variable assignment.
type Text interface {
	Reason() string
	text()
}

// Reason is a plain reason running to the end of the line.
type Reason struct {
	Text string
}

func (r *Reason) Reason() string { return r.Text }
func (*Reason) text()            {}

// ReasonWithVariable is a reason followed by " with key=value".
type ReasonWithVariable struct {
	Text  string
	Key   string
	Value string
}

func (r *ReasonWithVariable) Reason() string { return r.Text }
func (*ReasonWithVariable) text()            {}
