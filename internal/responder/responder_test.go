package responder_test

import (
	"context"
	"errors"
	"testing"

	"github.com/avasarlabs/santosh/internal/responder"
	"github.com/avasarlabs/santosh/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticFlow struct {
	flow domain.Flow
}

func (s staticFlow) Current() domain.Flow { return s.flow }

type stubGenerator struct {
	answer string
	err    error
	calls  int
}

func (g *stubGenerator) Reply(ctx context.Context, text string) (string, error) {
	g.calls++
	return g.answer, g.err
}

func testFlow() domain.Flow {
	return domain.Flow{
		{NodeID: "n1", Type: "normal", Text: "Hi there!", Keyword: "hello"},
		{
			NodeID: "n2", Type: "normal", Text: "Pick a topic", Keyword: "menu",
			CTAs: []domain.CallToAction{
				{Text: "Jobs", ID: "btn_42", NextID: "n5"},
				{Text: "About", ID: "btn_about"},
			},
		},
		{NodeID: "n5", Type: "normal", Text: "Latest job listings"},
		{NodeID: "n9", Type: domain.NodeTypeFallback, Text: "Sorry, I did not get that."},
	}
}

func TestResolveCTA(t *testing.T) {
	flow := testFlow()

	owner, nextID, ok := responder.ResolveCTA(flow, "btn_42")
	require.True(t, ok)
	assert.Equal(t, "n2", owner.NodeID)
	assert.Equal(t, "n5", nextID)

	_, _, ok = responder.ResolveCTA(flow, "nope")
	assert.False(t, ok)
}

func TestResolveCTA_DuplicateIDsFirstWins(t *testing.T) {
	flow := domain.Flow{
		{NodeID: "a", CTAs: []domain.CallToAction{{Text: "A", ID: "dup"}}},
		{NodeID: "b", CTAs: []domain.CallToAction{{Text: "B", ID: "dup", NextID: "a"}}},
	}

	owner, nextID, ok := responder.ResolveCTA(flow, "dup")
	require.True(t, ok)
	assert.Equal(t, "a", owner.NodeID)
	assert.Empty(t, nextID)
}

func TestSelect_CTAFollowsNextID(t *testing.T) {
	sel := responder.NewSelector(staticFlow{testFlow()})

	reply, path := sel.Select(context.Background(), "btn_42", "")
	assert.Equal(t, responder.PathCTA, path)

	node, ok := reply.(*domain.FlowNode)
	require.True(t, ok)
	assert.Equal(t, "n5", node.NodeID)
}

func TestSelect_CTAWithoutNextRepliesOwner(t *testing.T) {
	sel := responder.NewSelector(staticFlow{testFlow()})

	reply, _ := sel.Select(context.Background(), "btn_about", "")
	node, ok := reply.(*domain.FlowNode)
	require.True(t, ok)
	assert.Equal(t, "n2", node.NodeID)
}

func TestSelect_CTAWithDanglingNextRepliesOwner(t *testing.T) {
	flow := domain.Flow{
		{NodeID: "a", CTAs: []domain.CallToAction{{Text: "Go", ID: "btn", NextID: "missing"}}},
	}
	sel := responder.NewSelector(staticFlow{flow})

	reply, _ := sel.Select(context.Background(), "btn", "")
	node, ok := reply.(*domain.FlowNode)
	require.True(t, ok)
	assert.Equal(t, "a", node.NodeID)
}

func TestSelect_CTABeatsKeyword(t *testing.T) {
	// Both a valid CTA id and a keyword-matching text: the CTA path wins.
	sel := responder.NewSelector(staticFlow{testFlow()})

	reply, path := sel.Select(context.Background(), "btn_42", "hello")
	assert.Equal(t, responder.PathCTA, path)

	node, ok := reply.(*domain.FlowNode)
	require.True(t, ok)
	assert.Equal(t, "n5", node.NodeID)
}

func TestSelect_KeywordExact(t *testing.T) {
	sel := responder.NewSelector(staticFlow{testFlow()})

	reply, path := sel.Select(context.Background(), "", "hello")
	assert.Equal(t, responder.PathKeyword, path)

	node, ok := reply.(*domain.FlowNode)
	require.True(t, ok)
	assert.Equal(t, "n1", node.NodeID)
}

func TestSelect_KeywordTypo(t *testing.T) {
	sel := responder.NewSelector(staticFlow{testFlow()})

	reply, path := sel.Select(context.Background(), "", "helo")
	assert.Equal(t, responder.PathKeyword, path)

	node, ok := reply.(*domain.FlowNode)
	require.True(t, ok)
	assert.Equal(t, "n1", node.NodeID)
}

func TestSelect_GeneratedAdHoc(t *testing.T) {
	gen := &stubGenerator{answer: "I can help with that"}
	sel := responder.NewSelector(staticFlow{testFlow()}, responder.WithGenerator(gen))

	reply, path := sel.Select(context.Background(), "", "xyz123")
	assert.Equal(t, responder.PathGenerated, path)
	assert.Equal(t, 1, gen.calls)

	adhoc, ok := reply.(domain.AdHocReply)
	require.True(t, ok)
	assert.Equal(t, "I can help with that", adhoc.Text)
	assert.Empty(t, reply.ReplyCTAs())
	assert.Empty(t, reply.ReplyMedia())
}

func TestSelect_KeywordBeatsGenerator(t *testing.T) {
	gen := &stubGenerator{answer: "should never be used"}
	sel := responder.NewSelector(staticFlow{testFlow()}, responder.WithGenerator(gen))

	_, path := sel.Select(context.Background(), "", "hello")
	assert.Equal(t, responder.PathKeyword, path)
	assert.Zero(t, gen.calls)
}

func TestSelect_GeneratorFailureFallsThrough(t *testing.T) {
	gen := &stubGenerator{err: errors.New("model unavailable")}
	sel := responder.NewSelector(staticFlow{testFlow()}, responder.WithGenerator(gen))

	reply, path := sel.Select(context.Background(), "", "xyz123")
	assert.Equal(t, responder.PathFallback, path)

	node, ok := reply.(*domain.FlowNode)
	require.True(t, ok)
	assert.Equal(t, "n9", node.NodeID)
}

func TestSelect_EmptyGeneratorAnswerFallsThrough(t *testing.T) {
	gen := &stubGenerator{answer: ""}
	sel := responder.NewSelector(staticFlow{testFlow()}, responder.WithGenerator(gen))

	_, path := sel.Select(context.Background(), "", "xyz123")
	assert.Equal(t, responder.PathFallback, path)
}

func TestSelect_NoInputReturnsFallback(t *testing.T) {
	sel := responder.NewSelector(staticFlow{testFlow()})

	reply, path := sel.Select(context.Background(), "", "")
	assert.Equal(t, responder.PathFallback, path)

	node, ok := reply.(*domain.FlowNode)
	require.True(t, ok)
	assert.Equal(t, "n9", node.NodeID)
}

func TestSelect_BuiltInDefaultWhenNoFallbackNode(t *testing.T) {
	flow := domain.Flow{
		{NodeID: "n1", Keyword: "hello", Text: "Hi"},
	}
	sel := responder.NewSelector(staticFlow{flow})

	reply, path := sel.Select(context.Background(), "", "zzz")
	assert.Equal(t, responder.PathFallback, path)

	node, ok := reply.(*domain.FlowNode)
	require.True(t, ok)
	assert.Equal(t, "default", node.NodeID)
}
