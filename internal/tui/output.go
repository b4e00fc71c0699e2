package tui

import "github.com/longevai/ragchat/internal/render"

// AnswerBlock renders an answer the way the chat transcript shows it: the
// assistant label over a bordered bubble width columns wide.
func AnswerBlock(answer string, width int, opts render.Options) string {
	rendered := render.Answer(answer, opts.WithWidth(width-4))
	return assistantLabelStyle.Render("AI") + "\n" + assistantBubbleStyle.Width(width).Render(rendered)
}

// Notice renders a status line in the chat's notice colors
func Notice(text string, isError bool) string {
	if isError {
		return noticeErrorStyle.Render(text)
	}
	return noticeStyle.Render(text)
}

// Hint renders secondary detail text
func Hint(text string) string {
	return hintStyle.Render(text)
}
