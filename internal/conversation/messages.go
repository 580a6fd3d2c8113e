package conversation

// Message is one operator chat message.
type Message struct {
	ChatID    int64  `json:"chat_id"`
	UserID    int64  `json:"user_id"`
	FirstName string `json:"first_name"`
	Text      string `json:"text"`
}

// Reply is one message sent back to the chat. Keyboard lists reply buttons, one per row.
type Reply struct {
	ChatID   int64    `json:"chat_id"`
	Text     string   `json:"text"`
	Keyboard []string `json:"keyboard,omitempty"`
}

const (
	CommandStart         = "/start"
	CommandInstruction   = "Instruction"
	CommandAddProduct    = "Add product"
	CommandDeleteProduct = "Delete product"
	CommandListProducts  = "List products"
	CommandPriceHistory  = "Price history"
)

// MenuKeyboard is the top-level menu shown on /start.
var MenuKeyboard = []string{
	CommandInstruction,
	CommandAddProduct,
	CommandDeleteProduct,
	CommandListProducts,
	CommandPriceHistory,
}

const (
	historyDateLayout = "02-01-2006 15:04:05"

	textGreetingStranger = "Hello, %s! This bot only serves its operator."
	textMenu             = "%s, choose an action from the menu."
	textUnknown          = "Unknown command. Send /start to open the menu."
	textInstruction      = "How to use the bot:\n" +
		"1. Open the product page in the vendor's mobile app and copy two API links: the product info link and the product price link.\n" +
		"2. Press \"Add product\", send the info link, then the price link.\n" +
		"3. Prices are checked every hour. Press \"Price history\" and send a product id to see them.\n" +
		"4. \"List products\" shows every monitored product with its id; \"Delete product\" stops monitoring by id."

	textAskInfoURL  = "Send the product info API link (https://...)."
	textAskPriceURL = "Send the product price API link (https://...)."
	textAskID       = "Send the product id."

	textProductAdded = "Product added to monitoring.\nid: %d\nname: %s\nrating: %s"
	textMalformedURL = "Invalid link. Send an address of the form https://... as described in the instruction."
	textConnection   = "Could not reach the vendor. Try again later."
	textExtraction   = "Could not read product data from the vendor response. Check the links and try again."
	textGeneric      = "Something went wrong. Try again later."
	textInvalidID    = "Invalid id. Send a numeric product id."
	textRemoved      = "Product %d removed from monitoring."
	textNotFound     = "Product %d not found."
	textNoProducts   = "No products under monitoring."
	textProductLine  = "id: %d\nname: %s\nrating: %s"
	textNoRating     = "no rating"
	textNoHistory    = "No prices recorded for product %d yet."
	textHistoryLine  = "product id: %d\nprice: %s\ndate: %s"
)

// StartupNotice and ShutdownNotice are sent to the operator when the process starts and stops.
const (
	StartupNotice  = "Price monitor started."
	ShutdownNotice = "Price monitor stopped."
)
