package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/palemoky/chinese-trainer/internal/audio"
	"github.com/palemoky/chinese-trainer/internal/pinyin"
)

// toneRequest is the body of POST /tone. Cursor counts runes.
type toneRequest struct {
	Text   string `json:"text"`
	Cursor int    `json:"cursor"`
	Tone   int    `json:"tone" binding:"min=0,max=5"`
}

// ApplyTone re-tones the vowel nearest the cursor of a pinyin input box
func ApplyTone(c *gin.Context) {
	var req toneRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "tone must be between 0 and 5")
		return
	}

	text, cursor := pinyin.ApplyToneNumber(req.Text, req.Cursor, req.Tone)
	respondOK(c, gin.H{"text": text, "cursor": cursor})
}

// speakRequest is the body of POST /speak.
type speakRequest struct {
	Text string `json:"text" binding:"required"`
}

// SpeakHandler queues text for speech. Playback failures never reach the client.
func SpeakHandler(speaker audio.Speaker) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req speakRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, http.StatusBadRequest, "field 'text' is required")
			return
		}

		speaker.Speak(c.Request.Context(), req.Text)
		c.JSON(http.StatusAccepted, gin.H{"status": "queued"})
	}
}
