package questionbank

import "github.com/logosreach/pathway-engine/pkg/models"

// pathways is the closed registry of recommendable pathways. The AI chooses
// from this list only; changing it changes what the system prompt offers.
var pathways = []models.Pathway{
	{ID: 1, Name: "Discovering Jesus", Duration: "7-10 days", Theme: "seeker, new to Christianity, not familiar with Jesus, curiosity about faith"},
	{ID: 2, Name: "New Believer Foundations", Duration: "14 days", Theme: "recently believed, needs basics of faith"},
	{ID: 3, Name: "Water Baptism", Duration: "7 days", Theme: "baptism, public declaration of faith"},
	{ID: 4, Name: "Growing in Prayer", Duration: "7 days", Theme: "learning to pray, anxiety, peace, trusting God"},
	{ID: 5, Name: "Understanding the Bible", Duration: "10-14 days", Theme: "confused about scripture, wants deeper context"},
	{ID: 6, Name: "Finding Purpose & Calling", Duration: "14-21 days", Theme: "purpose, calling, career direction, meaning in life"},
	{ID: 7, Name: "Marriage & Relationships", Duration: "14-21 days", Theme: "marriage issues, relationship struggles, family"},
	{ID: 8, Name: "Parenting with Faith", Duration: "14 days", Theme: "parenting, raising children, family faith"},
	{ID: 9, Name: "Overcoming Anxiety", Duration: "10-14 days", Theme: "worry, fear, need peace, anxiety, stress"},
	{ID: 10, Name: "Healing from Grief", Duration: "21-30 days", Theme: "loss, grief, mourning, bereavement"},
	{ID: 11, Name: "Financial Stewardship", Duration: "14-21 days", Theme: "finances, money management, stewardship, debt"},
	{ID: 12, Name: "Crisis Support", Duration: "Variable", Theme: "urgent help, hopelessness, fear, crisis, emergency"},
}

// Pathways returns the pathway registry. Callers must not mutate the result.
func Pathways() []models.Pathway {
	return pathways
}
