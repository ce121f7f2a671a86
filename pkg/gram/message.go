// Package gram defines the canonical domain model produced by the
// normalization core: messages, chats, users, media records, formatting
// entities, and the signed peer-id codec.
//
// The package is platform-neutral by construction. It never imports the raw
// wire types; pkg/normalize owns the mapping from the wire into this model.
package gram

import "time"

// ChatType identifies the conversation scope of a Chat.
type ChatType string

const (
	// ChatTypePrivate is a one-to-one conversation with a user.
	ChatTypePrivate ChatType = "private"
	// ChatTypeGroup is a basic (non-migrated) group.
	ChatTypeGroup ChatType = "group"
	// ChatTypeSupergroup is a megagroup-flagged channel.
	ChatTypeSupergroup ChatType = "supergroup"
	// ChatTypeChannel is a broadcast channel.
	ChatTypeChannel ChatType = "channel"
)

// Chat identifies a conversation. ID is the signed encoded peer id produced
// by PeerID and is safe to carry through any 64-bit integer transport.
type Chat struct {
	ID       int64
	Type     ChatType
	Title    string
	Username string
	// FirstName and LastName are set for private chats only.
	FirstName string
	LastName  string
	Photo     *ChatPhoto
	// MembersCount is populated from full-chat responses when known.
	MembersCount      int
	Description       string
	InviteLink        string
	PinnedMessage     *Message
	RestrictionReason string
}

// User identifies an account observed in a response side table.
type User struct {
	ID                int64
	IsSelf            bool
	IsContact         bool
	IsMutualContact   bool
	IsDeleted         bool
	IsBot             bool
	FirstName         string
	LastName          string
	Username          string
	LanguageCode      string
	PhoneNumber       string
	Photo             *ChatPhoto
	Status            *UserStatus
	RestrictionReason string
}

// UserStatus reports last-seen visibility for a user. Exactly one of the
// boolean branches is set; Date is meaningful for the online/offline branches.
type UserStatus struct {
	Online      bool
	Offline     bool
	Recently    bool
	WithinWeek  bool
	WithinMonth bool
	LongTimeAgo bool
	Date        time.Time
}

// ChatPhoto carries the two file-identifier tokens of a profile photo.
type ChatPhoto struct {
	SmallFileID string
	BigFileID   string
}

// Message is the single canonical message record. Every message shape the
// wire can produce folds into this one struct: at most one media field is
// set, the media group and the service-action group are mutually exclusive,
// and Text/Entities are populated only when no media is attached (media
// messages use Caption/CaptionEntities instead).
type Message struct {
	ID   int
	Date time.Time
	Chat Chat
	From *User

	Text     string
	Entities []Entity

	Caption         string
	CaptionEntities []Entity

	AuthorSignature string
	EditDate        time.Time
	Views           int
	ViaBot          *User
	Outgoing        bool
	MediaGroupID    int64

	// Forward metadata. ForwardFrom and ForwardFromChat are mutually
	// exclusive; ForwardFromMessageID and ForwardSignature accompany the
	// channel branch only.
	ForwardFrom          *User
	ForwardFromChat      *Chat
	ForwardFromMessageID int
	ForwardSignature     string
	ForwardDate          time.Time

	// ReplyToMessage and PinnedMessage are owned by this record once
	// resolved; resolution depth is bounded by the caller's reply budget.
	ReplyToMessage *Message
	PinnedMessage  *Message

	Photo     *Photo
	Location  *Location
	Contact   *Contact
	Venue     *Venue
	Audio     *Audio
	Voice     *Voice
	Animation *Animation
	Video     *Video
	VideoNote *VideoNote
	Sticker   *Sticker
	Document  *Document

	NewChatMembers     []User
	LeftChatMember     *User
	NewChatTitle       string
	NewChatPhoto       *Photo
	DeleteChatPhoto    bool
	MigrateToChatID    int64
	MigrateFromChatID  int64
	GroupChatCreated   bool
	ChannelChatCreated bool

	ReplyMarkup *ReplyMarkup
}

// PhotoSize is one downloadable rendition of a photo.
type PhotoSize struct {
	FileID   string
	Width    int
	Height   int
	FileSize int
}

// Photo is a photo with its location-backed size list. ID is a reference
// token for the photo object itself, distinct from the per-size file ids.
type Photo struct {
	ID    string
	Date  time.Time
	Sizes []PhotoSize
}

// Location is a geographic point.
type Location struct {
	Longitude float64
	Latitude  float64
}

// Contact is a shared phone-book contact.
type Contact struct {
	PhoneNumber string
	FirstName   string
	LastName    string
	Vcard       string
	UserID      int64
}

// Venue is a location with venue metadata attached.
type Venue struct {
	Location       Location
	Title          string
	Address        string
	FoursquareID   string
	FoursquareType string
}

// Audio is a music file.
type Audio struct {
	FileID    string
	Duration  int
	Performer string
	Title     string
	MimeType  string
	FileSize  int64
	Thumb     *PhotoSize
	FileName  string
	Date      time.Time
}

// Voice is a voice note.
type Voice struct {
	FileID   string
	Duration int
	MimeType string
	FileSize int64
	Waveform []byte
	Date     time.Time
}

// Animation is a soundless looping video (GIF).
type Animation struct {
	FileID   string
	Width    int
	Height   int
	Duration int
	Thumb    *PhotoSize
	MimeType string
	FileSize int64
	FileName string
	Date     time.Time
}

// Video is a regular video file.
type Video struct {
	FileID            string
	Width             int
	Height            int
	Duration          int
	Thumb             *PhotoSize
	MimeType          string
	FileSize          int64
	FileName          string
	SupportsStreaming bool
	Date              time.Time
}

// VideoNote is a round video message. Length is the diameter in pixels.
type VideoNote struct {
	FileID   string
	Length   int
	Duration int
	Thumb    *PhotoSize
	MimeType string
	FileSize int64
	Date     time.Time
}

// Sticker is a sticker document. SetName is empty when the set is unknown or
// could not be resolved.
type Sticker struct {
	FileID   string
	Width    int
	Height   int
	Thumb    *PhotoSize
	Emoji    string
	SetName  string
	MimeType string
	FileSize int64
	FileName string
	Date     time.Time
}

// Document is a generic file attachment.
type Document struct {
	FileID   string
	Thumb    *PhotoSize
	FileName string
	MimeType string
	FileSize int64
	Date     time.Time
}

// CallbackQuery is a pressed inline-keyboard button. Exactly one of Message
// and InlineMessageID is set depending on where the button lived.
type CallbackQuery struct {
	ID              string
	From            *User
	Message         *Message
	InlineMessageID string
	ChatInstance    string
	Data            []byte
	GameShortName   string
}
