package broadcast

// Event names published to the pool room. Payload shapes are documented on
// the publishing usecases.
const (
	// EventJoined is sent after a successful join: {session_id, user_id, username}
	EventJoined = "joined"
	// EventMinersCount is sent after any membership change: {count}
	EventMinersCount = "miners_count"
	// EventTokenUpdate is sent after a share submission: {total_shares}
	EventTokenUpdate = "token_update"
	// EventChatMessage relays a chat line to the room: {username, message}
	EventChatMessage = "chat_message"
	// EventPayouts is sent after a successful payout run: {payouts: [...]}
	EventPayouts = "payouts"
	// EventBalances is sent after a successful payout run: {balances: [...]}
	EventBalances = "balances"
)

// Gateway fans out state-change notifications to all subscribers of the pool
// room. Delivery is fire-and-forget: a lost notification never affects the
// state change it reports, so none of these methods return errors.
type Gateway interface {
	// Join adds a subscriber to the pool room
	Join(subscriberID string)

	// Leave removes a subscriber from the pool room. Unknown subscribers are
	// ignored.
	Leave(subscriberID string)

	// Publish delivers an event to every subscriber in the pool room
	Publish(event string, payload any)
}
