package publish

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"time"
	"unicode/utf8"

	"github.com/bluesky-social/indigo/api/atproto"
	"github.com/bluesky-social/indigo/api/bsky"
	"github.com/bluesky-social/indigo/atproto/client"
	"github.com/bluesky-social/indigo/lex/util"
)

const (
	blueskyHost = "https://bsky.social"

	// Bluesky limits posts to 300 graphemes and alt text to 2000
	maxPostLength = 300
	maxAltLength  = 2000
)

// MaxImageBytes is the largest blob the PDS accepts for an image embed
const MaxImageBytes = 1000000

// Poster posts a picture with a caption, or the caption alone
type Poster interface {
	PostWithImage(ctx context.Context, text string, image []byte, alt string, width, height int) error
	PostText(ctx context.Context, text string) error
}

// BlueskyPoster posts chart snapshots to a Bluesky account
type BlueskyPoster struct {
	client   *client.APIClient
	handle   string
	password string
}

// NewBlueskyPoster creates an unauthenticated poster
func NewBlueskyPoster(handle, password string) *BlueskyPoster {
	return &BlueskyPoster{
		handle:   handle,
		password: password,
	}
}

// Authenticate logs in with the app password
func (p *BlueskyPoster) Authenticate(ctx context.Context) error {
	authClient, err := client.LoginWithPasswordHost(ctx, blueskyHost, p.handle, p.password, "", nil)
	if err != nil {
		return fmt.Errorf("failed to authenticate: %w", err)
	}

	p.client = authClient
	return nil
}

// PostText posts a simple text message to Bluesky
func (p *BlueskyPoster) PostText(ctx context.Context, text string) error {
	return p.createPost(ctx, &bsky.FeedPost{
		Text:      truncateText(text, maxPostLength),
		CreatedAt: time.Now().Format(time.RFC3339),
	})
}

// PostWithImage uploads a PNG and posts it with text. Width and height set the
// aspect ratio clients reserve before the image loads; zero leaves it unset.
func (p *BlueskyPoster) PostWithImage(ctx context.Context, text string, image []byte, alt string, width, height int) error {
	if p.client == nil {
		return fmt.Errorf("client not authenticated")
	}
	if len(image) == 0 {
		return fmt.Errorf("image is empty")
	}
	if len(image) > MaxImageBytes {
		return fmt.Errorf("image is %d bytes, over the %d byte limit", len(image), MaxImageBytes)
	}

	blob, err := atproto.RepoUploadBlob(ctx, p.client, bytes.NewReader(image))
	if err != nil {
		return fmt.Errorf("failed to upload image: %w", err)
	}

	img := &bsky.EmbedImages_Image{
		Alt:   truncateText(alt, maxAltLength),
		Image: blob.Blob,
	}
	if width > 0 && height > 0 {
		img.AspectRatio = &bsky.EmbedDefs_AspectRatio{
			Width:  int64(width),
			Height: int64(height),
		}
	}

	return p.createPost(ctx, &bsky.FeedPost{
		Text:      truncateText(text, maxPostLength),
		CreatedAt: time.Now().Format(time.RFC3339),
		Embed: &bsky.FeedPost_Embed{
			EmbedImages: &bsky.EmbedImages{
				LexiconTypeID: "app.bsky.embed.images",
				Images:        []*bsky.EmbedImages_Image{img},
			},
		},
	})
}

func (p *BlueskyPoster) createPost(ctx context.Context, post *bsky.FeedPost) error {
	if p.client == nil {
		return fmt.Errorf("client not authenticated")
	}

	_, err := atproto.RepoCreateRecord(ctx, p.client, &atproto.RepoCreateRecord_Input{
		Repo:       p.handle,
		Collection: "app.bsky.feed.post",
		Record:     &util.LexiconTypeDecoder{Val: post},
	})
	if err != nil {
		return fmt.Errorf("failed to post to Bluesky: %w", err)
	}

	log.Printf("Successfully posted to Bluesky: %s", truncateText(post.Text, 50))
	return nil
}

// truncateText shortens text to at most maxLength runes, ending with an ellipsis
func truncateText(text string, maxLength int) string {
	if utf8.RuneCountInString(text) <= maxLength {
		return text
	}
	runes := []rune(text)
	return string(runes[:maxLength-1]) + "…"
}
