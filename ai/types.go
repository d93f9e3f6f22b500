package ai

// EntityTypes defines the valid categories for extracted entities.
var EntityTypes = []string{
	"person",
	"political_party",
	"government_agency",
	"organization",
	"company",
	"media_outlet",
	"website",
	"social_media_account",
}
