package client

import "gemini-chat-api/internal/domain/entity"

// Template 预置提示词
type Template struct {
	Label string
	Value string
}

var templates = map[entity.Mode][]Template{
	entity.ModeText: {
		{Label: "Blog outline", Value: "Write a blog article outline about {topic} with 5 subheadings."},
		{Label: "Explain like I'm five", Value: "Explain the concept of {concept} in a way a 10-year-old can understand."},
		{Label: "Pros & Cons", Value: "List the pros and cons of {product/idea} as bullet points."},
	},
	entity.ModeImage: {
		{Label: "Describe product photo", Value: "Describe this image, focusing on the main object and the overall mood."},
		{Label: "Extract text (OCR-ish)", Value: "If the image contains text, transcribe it and summarize the key points."},
	},
	entity.ModeAudio: {
		{Label: "Transcribe to English", Value: "Transcribe this audio into English with tidy paragraphs."},
		{Label: "Transcribe + summary", Value: "Transcribe this audio, then give a 3-5 point summary."},
	},
	entity.ModeDocument: {
		{Label: "Summarize doc", Value: "Summarize the following document into 5-7 key points."},
		{Label: "Extract action items", Value: "Pull the action items out of the document and write them as a to-do list."},
	},
}

var hints = map[entity.Mode]string{
	entity.ModeText:     "Send plain text to Gemini.",
	entity.ModeImage:    "Upload an image (jpg/png/webp) + optional prompt.",
	entity.ModeAudio:    "Upload audio (mp3/wav/m4a/webm/aac) + optional prompt.",
	entity.ModeDocument: "Upload a document (PDF/TXT/DOCX) + optional prompt.",
}

var accepts = map[entity.Mode]string{
	entity.ModeText:     "",
	entity.ModeImage:    "image/*",
	entity.ModeAudio:    "audio/*",
	entity.ModeDocument: ".pdf,.txt,.docx,application/pdf,text/plain,application/vnd.openxmlformats-officedocument.wordprocessingml.document",
}

// TemplatesFor 返回模式的模板副本
func TemplatesFor(m entity.Mode) []Template {
	out := make([]Template, len(templates[m]))
	copy(out, templates[m])
	return out
}
