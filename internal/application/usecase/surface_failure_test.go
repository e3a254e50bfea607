package usecase

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/bnema/promptcast/internal/application/port"
	"github.com/bnema/promptcast/internal/application/port/mocks"
	"github.com/bnema/promptcast/internal/domain/entity"
)

func TestSurfaceFailure_AllChannels(t *testing.T) {
	page := newFakePage()
	clip := mocks.NewMockClipboard(t)
	notifier := mocks.NewMockNotifier(t)

	clip.EXPECT().WriteText(mock.Anything, "Explain: gravity").Return(nil).Once()
	notifier.EXPECT().
		Notify(mock.Anything, "promptcast", `"Explain" could not be inserted. The prompt is on your clipboard.`, port.UrgencyNormal).
		Return(nil).Once()

	uc := NewSurfaceFailureUseCase(page, clip, notifier)
	err := uc.Execute(testContext(), SurfaceFailureInput{
		TabID:  "tab-1",
		Label:  "Explain",
		Prompt: "Explain: gravity",
		State:  entity.StateSubmitFailed,
	})

	assert.NoError(t, err)
	assert.Equal(t, []string{ManualPasteMessage}, page.inspect("tab-1").alerts)
}

func TestSurfaceFailure_NotFoundDoesNotAlertTwice(t *testing.T) {
	page := newFakePage()
	uc := NewSurfaceFailureUseCase(page, nil, nil)

	err := uc.Execute(testContext(), SurfaceFailureInput{TabID: "tab-1", Label: "x", State: entity.StateNotFound})

	assert.NoError(t, err)
	assert.Empty(t, page.inspect("tab-1").alerts)
}

func TestSurfaceFailure_JoinsChannelErrors(t *testing.T) {
	clip := mocks.NewMockClipboard(t)
	notifier := mocks.NewMockNotifier(t)
	clipErr := errors.New("no display")

	clip.EXPECT().WriteText(mock.Anything, "p").Return(clipErr)
	notifier.EXPECT().Notify(mock.Anything, "promptcast", `"x" could not be inserted.`, port.UrgencyNormal).Return(nil)

	uc := NewSurfaceFailureUseCase(nil, clip, notifier)
	err := uc.Execute(testContext(), SurfaceFailureInput{Label: "x", Prompt: "p"})

	assert.ErrorIs(t, err, clipErr)
}
