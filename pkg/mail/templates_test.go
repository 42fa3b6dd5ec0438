package mail

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campus-tools/ecard-notify/pkg/ecard"
)

func TestRenderSummary(t *testing.T) {
	bill, err := ecard.NewBill("2017-05-05 11:13:50", "-10.5", "123.45", "玉泉食堂", "消费POS消费")
	require.NoError(t, err)
	deposit, err := ecard.NewBill("2017-05-05 18:00:00", "100", "223.45", "", "转账圈存")
	require.NoError(t, err)

	result, err := NewTemplateRenderer().Render(TemplateSummary, map[string]any{
		"date":    "2017-05-05",
		"time":    "2017-05-05 22:00:00",
		"balance": "223.45",
		"bills":   []ecard.Bill{bill, deposit},
	})

	assert.NoError(t, err)
	assert.NotEmpty(t, result)
	assert.Contains(t, result, "2017-05-05")
	assert.Contains(t, result, "2017-05-05 11:13:50")
	assert.Contains(t, result, "-10.5")
	assert.Contains(t, result, "玉泉食堂")
	assert.Contains(t, result, "消费POS消费")
	assert.Contains(t, result, "223.45")
	assert.Contains(t, result, "2017-05-05 22:00:00")
}

func TestRenderSummaryEmptyPlace(t *testing.T) {
	bill, err := ecard.NewBill("2017-05-05 18:00:00", "100", "223.45", "", "转账圈存")
	require.NoError(t, err)

	result, err := NewTemplateRenderer().Render(TemplateSummary, map[string]any{
		"date":    "2017-05-05",
		"time":    "2017-05-05 22:00:00",
		"balance": "223.45",
		"bills":   []ecard.Bill{bill},
	})

	assert.NoError(t, err)
	// Empty place falls back to a dash rather than an empty cell.
	assert.Contains(t, result, "<td>-</td>")
}

func TestRenderSummaryNoBills(t *testing.T) {
	result, err := NewTemplateRenderer().Render(TemplateSummary, map[string]any{
		"date":    "2017-05-05",
		"time":    "2017-05-05 22:00:00",
		"balance": "unknown",
		"bills":   []ecard.Bill{},
	})

	assert.NoError(t, err)
	assert.Contains(t, result, "No transactions")
	assert.Contains(t, result, "unknown")
}

func TestRenderError(t *testing.T) {
	detail := "gathering summary: Login failed: portal rejected the credentials"

	result, err := NewTemplateRenderer().Render(TemplateError, map[string]any{
		"error": detail,
	})

	assert.NoError(t, err)
	assert.Contains(t, result, detail)
}

func TestRenderUnknownTemplate(t *testing.T) {
	_, err := NewTemplateRenderer().Render("weekly", map[string]any{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown mail template")
}
