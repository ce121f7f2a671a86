package normalize

import (
	"context"
	"fmt"
	"time"

	"github.com/gotd/td/tg"
	"github.com/gotd/td/tgerr"
	"go.uber.org/zap"

	"gramfold/pkg/fileid"
	"gramfold/pkg/gram"
)

// MediaNormalizer classifies wire media into exactly one canonical media
// record and mints addressable file identifiers for everything downloadable.
type MediaNormalizer struct {
	stickers StickerSetResolver
	logger   *zap.Logger
}

// MediaNormalizerOption configures a MediaNormalizer.
type MediaNormalizerOption func(*MediaNormalizer)

// WithStickerSetResolver installs the resolver used to turn sticker set
// references into short names. Without one, only inline short-name
// references resolve; ID references yield stickers with an empty set name.
func WithStickerSetResolver(r StickerSetResolver) MediaNormalizerOption {
	return func(n *MediaNormalizer) { n.stickers = r }
}

// WithMediaLogger sets the logger for degraded-path diagnostics.
func WithMediaLogger(logger *zap.Logger) MediaNormalizerOption {
	return func(n *MediaNormalizer) { n.logger = logger }
}

// NewMediaNormalizer builds a normalizer. The zero configuration works
// offline: no sticker set resolution, no logging.
func NewMediaNormalizer(opts ...MediaNormalizerOption) *MediaNormalizer {
	n := &MediaNormalizer{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// media carries the outcome of classification: at most one pointer is set.
type media struct {
	Photo     *gram.Photo
	Location  *gram.Location
	Contact   *gram.Contact
	Venue     *gram.Venue
	Audio     *gram.Audio
	Voice     *gram.Voice
	Animation *gram.Animation
	Video     *gram.Video
	VideoNote *gram.VideoNote
	Sticker   *gram.Sticker
	Document  *gram.Document
}

func (m media) present() bool {
	return m != media{}
}

func (m media) apply(msg *gram.Message) {
	msg.Photo = m.Photo
	msg.Location = m.Location
	msg.Contact = m.Contact
	msg.Venue = m.Venue
	msg.Audio = m.Audio
	msg.Voice = m.Voice
	msg.Animation = m.Animation
	msg.Video = m.Video
	msg.VideoNote = m.VideoNote
	msg.Sticker = m.Sticker
	msg.Document = m.Document
}

// Normalize classifies one wire media value. Unsupported media kinds (web
// pages, polls, dice, invoices) normalize to nothing, matching a text-only
// message.
func (n *MediaNormalizer) Normalize(ctx context.Context, m tg.MessageMediaClass) (media, error) {
	switch v := m.(type) {
	case *tg.MessageMediaPhoto:
		photo, ok := v.GetPhoto()
		if !ok {
			return media{}, nil
		}
		return media{Photo: parsePhoto(photo)}, nil
	case *tg.MessageMediaGeo:
		return media{Location: parseGeo(v.Geo)}, nil
	case *tg.MessageMediaContact:
		return media{Contact: &gram.Contact{
			PhoneNumber: v.PhoneNumber,
			FirstName:   v.FirstName,
			LastName:    v.LastName,
			Vcard:       v.Vcard,
			UserID:      v.UserID,
		}}, nil
	case *tg.MessageMediaVenue:
		loc := parseGeo(v.Geo)
		if loc == nil {
			return media{}, nil
		}
		return media{Venue: &gram.Venue{
			Location:       *loc,
			Title:          v.Title,
			Address:        v.Address,
			FoursquareID:   v.VenueID,
			FoursquareType: v.VenueType,
		}}, nil
	case *tg.MessageMediaDocument:
		doc, ok := v.GetDocument()
		if !ok {
			return media{}, nil
		}
		concrete, ok := doc.(*tg.Document)
		if !ok {
			return media{}, nil
		}
		return n.normalizeDocument(ctx, concrete)
	default:
		return media{}, nil
	}
}

func parseGeo(geo tg.GeoPointClass) *gram.Location {
	point, ok := geo.(*tg.GeoPoint)
	if !ok {
		return nil
	}
	return &gram.Location{Longitude: point.Long, Latitude: point.Lat}
}

// parsePhoto folds a photo and its renditions. Progressive and stripped
// renditions carry no independently addressable bytes and are skipped; only
// plain and cached renditions survive. Modern photo locations carry no
// volume or secret, so the rendition index stands in for the local ID.
func parsePhoto(photo tg.PhotoClass) *gram.Photo {
	p, ok := photo.(*tg.Photo)
	if !ok {
		return nil
	}
	out := &gram.Photo{
		ID:   fileid.ReferenceToken(p.ID, p.AccessHash),
		Date: time.Unix(int64(p.Date), 0),
	}
	for i, size := range p.Sizes {
		loc := fileid.Locator{
			Type:       fileid.TypePhoto,
			DCID:       int32(p.DCID),
			ID:         p.ID,
			AccessHash: p.AccessHash,
			LocalID:    int32(i),
		}
		switch s := size.(type) {
		case *tg.PhotoSize:
			out.Sizes = append(out.Sizes, gram.PhotoSize{
				FileID:   fileid.Encode(loc),
				Width:    s.W,
				Height:   s.H,
				FileSize: s.Size,
			})
		case *tg.PhotoCachedSize:
			out.Sizes = append(out.Sizes, gram.PhotoSize{
				FileID:   fileid.Encode(loc),
				Width:    s.W,
				Height:   s.H,
				FileSize: len(s.Bytes),
			})
		}
	}
	if len(out.Sizes) == 0 {
		return nil
	}
	return out
}

// normalizeDocument applies the attribute precedence that decides what a
// document actually is: audio splits on the voice flag, an animated marker
// wins over a plain video, video splits on the round flag, a sticker
// resolves its set name, and anything unclaimed stays a generic document.
func (n *MediaNormalizer) normalizeDocument(ctx context.Context, doc *tg.Document) (media, error) {
	var (
		audio    *tg.DocumentAttributeAudio
		video    *tg.DocumentAttributeVideo
		sticker  *tg.DocumentAttributeSticker
		image    *tg.DocumentAttributeImageSize
		animated bool
		fileName string
	)
	for _, attr := range doc.Attributes {
		switch a := attr.(type) {
		case *tg.DocumentAttributeAudio:
			audio = a
		case *tg.DocumentAttributeVideo:
			video = a
		case *tg.DocumentAttributeSticker:
			sticker = a
		case *tg.DocumentAttributeImageSize:
			image = a
		case *tg.DocumentAttributeAnimated:
			animated = true
		case *tg.DocumentAttributeFilename:
			fileName = a.FileName
		}
	}

	thumb := documentThumb(doc)

	switch {
	case audio != nil && audio.Voice:
		return media{Voice: &gram.Voice{
			FileID:   documentFileID(doc, fileid.TypeVoice),
			Duration: audio.Duration,
			Waveform: audio.Waveform,
			MimeType: doc.MimeType,
			FileSize: doc.Size,
			Date:     time.Unix(int64(doc.Date), 0),
		}}, nil
	case audio != nil:
		title, _ := audio.GetTitle()
		performer, _ := audio.GetPerformer()
		return media{Audio: &gram.Audio{
			FileID:    documentFileID(doc, fileid.TypeAudio),
			Duration:  audio.Duration,
			Performer: performer,
			Title:     title,
			MimeType:  doc.MimeType,
			FileSize:  doc.Size,
			FileName:  fileName,
			Date:      time.Unix(int64(doc.Date), 0),
			Thumb:     thumb,
		}}, nil
	case animated:
		anim := &gram.Animation{
			FileID:   documentFileID(doc, fileid.TypeAnimation),
			FileName: fileName,
			MimeType: doc.MimeType,
			FileSize: doc.Size,
			Date:     time.Unix(int64(doc.Date), 0),
			Thumb:    thumb,
		}
		// The paired video attribute supplies geometry when present;
		// GIF-born animations may only have an image size.
		if video != nil {
			anim.Width = video.W
			anim.Height = video.H
			anim.Duration = int(video.Duration)
		} else if image != nil {
			anim.Width = image.W
			anim.Height = image.H
		}
		return media{Animation: anim}, nil
	case video != nil && video.RoundMessage:
		return media{VideoNote: &gram.VideoNote{
			FileID:   documentFileID(doc, fileid.TypeVideoNote),
			Length:   video.W,
			Duration: int(video.Duration),
			MimeType: doc.MimeType,
			FileSize: doc.Size,
			Date:     time.Unix(int64(doc.Date), 0),
			Thumb:    thumb,
		}}, nil
	case video != nil:
		return media{Video: &gram.Video{
			FileID:            documentFileID(doc, fileid.TypeVideo),
			Width:             video.W,
			Height:            video.H,
			Duration:          int(video.Duration),
			SupportsStreaming: video.SupportsStreaming,
			FileName:          fileName,
			MimeType:          doc.MimeType,
			FileSize:          doc.Size,
			Date:              time.Unix(int64(doc.Date), 0),
			Thumb:             thumb,
		}}, nil
	case sticker != nil:
		setName, err := n.stickerSetName(ctx, sticker.Stickerset)
		if err != nil {
			return media{}, fmt.Errorf("resolve sticker set: %w", err)
		}
		st := &gram.Sticker{
			FileID:   documentFileID(doc, fileid.TypeSticker),
			Emoji:    sticker.Alt,
			SetName:  setName,
			FileName: fileName,
			MimeType: doc.MimeType,
			FileSize: doc.Size,
			Date:     time.Unix(int64(doc.Date), 0),
			Thumb:    thumb,
		}
		if image != nil {
			st.Width = image.W
			st.Height = image.H
		} else if video != nil {
			st.Width = video.W
			st.Height = video.H
		}
		return media{Sticker: st}, nil
	default:
		return media{Document: &gram.Document{
			FileID:   documentFileID(doc, fileid.TypeDocument),
			FileName: fileName,
			MimeType: doc.MimeType,
			FileSize: doc.Size,
			Date:     time.Unix(int64(doc.Date), 0),
			Thumb:    thumb,
		}}, nil
	}
}

// stickerSetName resolves the short name for a sticker set reference.
// Invalid sets and rate limits degrade to an empty name so a single broken
// sticker never fails the whole message; other errors propagate.
func (n *MediaNormalizer) stickerSetName(ctx context.Context, set tg.InputStickerSetClass) (string, error) {
	switch s := set.(type) {
	case *tg.InputStickerSetShortName:
		return s.ShortName, nil
	case *tg.InputStickerSetID:
		if n.stickers == nil {
			return "", nil
		}
		name, err := n.stickers.ShortName(ctx, s.ID, s.AccessHash)
		if err != nil {
			if _, isFlood := tgerr.AsFloodWait(err); isFlood || tgerr.Is(err, "STICKERSET_INVALID") {
				n.logger.Debug("sticker set unavailable",
					zap.Int64("set_id", s.ID),
					zap.Error(err),
				)
				return "", nil
			}
			return "", err
		}
		return name, nil
	default:
		return "", nil
	}
}

func documentFileID(doc *tg.Document, typ fileid.Type) string {
	return fileid.Encode(fileid.Locator{
		Type:       typ,
		DCID:       int32(doc.DCID),
		ID:         doc.ID,
		AccessHash: doc.AccessHash,
	})
}

// documentThumb picks the first addressable thumbnail rendition.
func documentThumb(doc *tg.Document) *gram.PhotoSize {
	thumbs, ok := doc.GetThumbs()
	if !ok {
		return nil
	}
	loc := fileid.Locator{
		Type:       fileid.TypeThumbnail,
		DCID:       int32(doc.DCID),
		ID:         doc.ID,
		AccessHash: doc.AccessHash,
	}
	for _, t := range thumbs {
		switch s := t.(type) {
		case *tg.PhotoSize:
			return &gram.PhotoSize{
				FileID:   fileid.Encode(loc),
				Width:    s.W,
				Height:   s.H,
				FileSize: s.Size,
			}
		case *tg.PhotoCachedSize:
			return &gram.PhotoSize{
				FileID:   fileid.Encode(loc),
				Width:    s.W,
				Height:   s.H,
				FileSize: len(s.Bytes),
			}
		}
	}
	return nil
}
