package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type PageHandler struct{}

func NewPageHandler() *PageHandler {
	return &PageHandler{}
}

func (h *PageHandler) About(c *gin.Context) {
	render(c, http.StatusOK, "about.html", gin.H{})
}

// Vlog is one entry on the featured-vlogs showcase page.
type Vlog struct {
	Title       string
	Creator     string
	URL         string
	Description string
}

var featuredVlogs = []Vlog{
	{
		Title:       "Midnight in Paris, Off Camera",
		Creator:     "Aurelia V.",
		URL:         "https://videos.example.com/paris-midnight",
		Description: "Seine-side galleries and champagne bars after the crowds leave.",
	},
	{
		Title:       "Kyoto's Velvet Dusk",
		Creator:     "Aurelia V.",
		URL:         "https://videos.example.com/kyoto-dusk",
		Description: "A tea ceremony behind the Arashiyama bamboo grove, filmed at golden hour.",
	},
	{
		Title:       "Santorini Golden Hour",
		Creator:     "Niko M.",
		URL:         "https://videos.example.com/santorini-gold",
		Description: "Waiting for sunset from an infinity pool above the caldera.",
	},
	{
		Title:       "Marrakech Courtyards",
		Creator:     "Leila B.",
		URL:         "https://videos.example.com/marrakech-riads",
		Description: "Hidden riads, zellige tiles, and mint tea on the rooftops.",
	},
}

func (h *PageHandler) Vlogs(c *gin.Context) {
	render(c, http.StatusOK, "vlogs.html", gin.H{
		"Vlogs": featuredVlogs,
	})
}
