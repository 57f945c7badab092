package state

// Fixed assistant replies. Control-token and failure turns never reach the
// model, so their wording lives here.
const (
	ReplyGreeting     = "Welcome to EstroTech Jewellery! I'm your personal AI assistant. How can I help you find something beautiful today?"
	ReplyStaffHandoff = "Okay, I'll get a staff member to assist you right away!"
	ReplyStaffNotify  = "Sure, I'm notifying a staff member to help you now."
	ReplyGoodbye      = "Thank you for visiting EstroTech Jewellery! Have a wonderful day."

	ReplyRephrase         = "I seem to have gotten my wires crossed. Could you please rephrase that?"
	ReplyClarify          = "I'm having a bit of trouble understanding the details. Could you try saying that a different way?"
	ReplyTechnicalTrouble = "I'm experiencing a technical difficulty right now. Please try again in a moment."
	ReplyCatalogTrouble   = "I'm having trouble accessing our product catalog right now. Please try again in a moment."

	ReplyItemNotFound = "I couldn't find details for that specific item. Would you like to see similar products or adjust your search?"

	// AdjustPreferencesPrompt is the synthetic message sent to the model after
	// the adjust-filters control token cleared the slots.
	AdjustPreferencesPrompt = "User wants to adjust preferences. Ask what they'd like to change or look for now."
)
