package constant

const (
	ChatMessageRoleUser      = "user"
	ChatMessageRoleAssistant = "assistant"
	ChatMessageRoleSystem    = "system"

	// Frontend action-button values. The chat endpoint treats these as
	// control tokens, not free text.
	ActionValueTalkToStaff       = "request_staff_assistance_dialogue"
	ActionValueAdjustPreferences = "adjust_preferences_dialogue"
	ActionValueShowDifferent     = "show_different_items"
	ActionValueItemDetails       = "item_details_placeholder"

	// Action-button labels shown alongside a recommendation set.
	ActionLabelItemDetails   = "More About Item (Select)"
	ActionLabelShowDifferent = "Different Options"
	ActionLabelAdjustFilters = "Adjust Filters"
	ActionLabelChatWithStaff = "Chat with Staff"
	ActionLabelAdjustSearch  = "Adjust Search"

	// Category quick-pick labels offered when the category slot is missing.
	CategoryLabelRings     = "Rings"
	CategoryLabelNecklaces = "Necklaces"
	CategoryLabelEarrings  = "Earrings"
	CategoryLabelBracelets = "Bracelets"
)
