// Package payload builds the save request handed to the (external) save
// controller. Building is a pure, repeatable function of the current state:
// it never mutates editor state and is safe to call any number of times.
package payload

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"github.com/redmarkhq/redmark/internal/engine"
	"github.com/redmarkhq/redmark/internal/export"
	"github.com/redmarkhq/redmark/internal/token"
)

// tokenJoinSep keeps token-boundary hashes collision resistant against
// token texts that themselves contain spaces.
const tokenJoinSep = "␟"

// Details is the structured payload stored alongside one annotation.
type Details struct {
	TextSHA256       *string          `json:"text_sha256"`
	TextTokens       []string         `json:"text_tokens"`
	TextTokensSHA256 *string          `json:"text_tokens_sha256"`
	Operation        string           `json:"operation"`
	BeforeTokens     []string         `json:"before_tokens"`
	AfterTokens      []token.Fragment `json:"after_tokens"`
	Source           string           `json:"source"`
	MoveFrom         *int             `json:"move_from,omitempty"`
	MoveTo           *int             `json:"move_to,omitempty"`
	MoveLen          *int             `json:"move_len,omitempty"`
}

// Draft is one annotation ready to save.
type Draft struct {
	ID          int64   `json:"id,omitempty"`
	StartToken  int     `json:"start_token"`
	EndToken    int     `json:"end_token"`
	Replacement *string `json:"replacement"`
	ErrorTypeID int     `json:"error_type_id"`
	Payload     Details `json:"payload"`
}

// BatchRequest is the save request body. DeletedIDs lists annotations
// absent from the new span set.
type BatchRequest struct {
	Annotations   []Draft `json:"annotations"`
	ClientVersion int     `json:"client_version"`
	DeletedIDs    []int64 `json:"deleted_ids,omitempty"`
}

// hashFn is replaceable so tests can simulate a missing hash primitive;
// when nil, integrity fields degrade to null instead of failing the save.
var hashFn func([]byte) string = sha256Hex

func sha256Hex(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// hashText returns the hex digest of text, or nil when hashing is
// unavailable. It never panics.
func hashText(text string) (digest *string) {
	defer func() {
		if recover() != nil {
			digest = nil
		}
	}()
	if hashFn == nil {
		return nil
	}
	h := hashFn([]byte(text))
	return &h
}

// hashTokens hashes the visible token texts joined with the U+241F
// separator.
func hashTokens(texts []string) *string {
	return hashText(strings.Join(texts, tokenJoinSep))
}

// Builder resolves error-type labels to ids and carries the session's raw
// text for integrity hashing.
type Builder struct {
	RawText string
	TypeIDs map[string]int // error-type label -> id
	OtherID int            // fallback id for unlabeled spans
}

// BuildDrafts turns the canonical operation log plus live move markers
// into save drafts. Noop operations that carry an assigned type are kept:
// the server decides whether to normalize them away.
func (b Builder) BuildDrafts(st engine.PresentState, asg export.Assignments) []Draft {
	cards := export.DeriveCards(st.Tokens)
	textTokens := token.VisibleTexts(st.Original)
	textHash := hashText(b.RawText)
	tokensHash := hashTokens(textTokens)

	var drafts []Draft
	for _, op := range st.Operations {
		draft := Draft{
			StartToken:  op.Start,
			EndToken:    op.End,
			ErrorTypeID: b.typeID(labelFor(op.ID, cards, asg)),
			Payload: Details{
				TextSHA256:       textHash,
				TextTokens:       textTokens,
				TextTokensSHA256: tokensHash,
				Operation:        string(op.Type),
				BeforeTokens:     beforeIDs(st.Original, op),
				AfterTokens:      op.After,
				Source:           "manual",
			},
		}
		if text := op.AfterText(); text != "" {
			draft.Replacement = &text
		}
		drafts = append(drafts, draft)
	}

	for _, m := range engine.DeriveMoveMarkers(st.Tokens) {
		m := m
		length := m.ToEnd - m.ToStart + 1
		drafts = append(drafts, Draft{
			StartToken:  m.FromStart,
			EndToken:    m.FromEnd,
			ErrorTypeID: b.typeID(labelFor("move-dest-"+m.ID, cards, asg)),
			Payload: Details{
				TextSHA256:       textHash,
				TextTokens:       textTokens,
				TextTokensSHA256: tokensHash,
				Operation:        string(engine.OpMove),
				Source:           "manual",
				MoveFrom:         &m.FromStart,
				MoveTo:           &m.ToStart,
				MoveLen:          &length,
			},
		})
	}
	return drafts
}

// BuildBatch assembles the batch request, reporting ids present before but
// absent from the new draft set as deletions.
func (b Builder) BuildBatch(drafts []Draft, existingIDs []int64, clientVersion int) BatchRequest {
	kept := make(map[int64]struct{}, len(drafts))
	for _, d := range drafts {
		if d.ID != 0 {
			kept[d.ID] = struct{}{}
		}
	}
	var deleted []int64
	for _, id := range existingIDs {
		if _, ok := kept[id]; !ok {
			deleted = append(deleted, id)
		}
	}
	return BatchRequest{
		Annotations:   drafts,
		ClientVersion: clientVersion,
		DeletedIDs:    deleted,
	}
}

func (b Builder) typeID(label string) int {
	if id, ok := b.TypeIDs[label]; ok {
		return id
	}
	return b.OtherID
}

func labelFor(groupID string, cards []export.CorrectionCard, asg export.Assignments) string {
	for _, card := range cards {
		if card.ID == groupID {
			if label := asg.Cards[card.ID]; label != "" {
				return label
			}
		}
	}
	return "OTHER"
}

// beforeIDs lists the ids of the original tokens an operation covers;
// inserts cover none.
func beforeIDs(original []token.Token, op engine.Operation) []string {
	if op.Type == engine.OpInsert {
		return nil
	}
	var ids []string
	for i := op.Start; i <= op.End && i < len(original); i++ {
		if i >= 0 {
			ids = append(ids, original[i].ID)
		}
	}
	return ids
}
