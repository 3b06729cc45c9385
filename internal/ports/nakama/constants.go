package nakama

// RPC ids registered with Nakama.
const (
	RpcListMatches = "blackjack_list_matches"
	RpcGetMatch    = "blackjack_get_match"
	RpcCreateMatch = "blackjack_create_match"
	RpcDeleteMatch = "blackjack_delete_match"
	RpcAddPlayer   = "blackjack_add_player"
	RpcPlaceBet    = "blackjack_place_bet"
	RpcAct         = "blackjack_act"
	RpcStand       = "blackjack_stand"
	RpcRematch     = "blackjack_rematch"
)

// MatchNameFeed is the authoritative match handler that streams table snapshots to spectators.
const MatchNameFeed = "blackjack_feed"

// Op codes for server -> client feed messages.
const (
	OpMatchSnapshot int64 = 1
	OpMatchSettled  int64 = 2
)

// Label and analytics keys.
const (
	labelGame         = "blackjack"
	feedParamMatchID  = "matchId"
	eventNamePrefix   = "blackjack_"
	walletReasonKey   = "reason"
	walletReasonValue = "blackjack_settlement"
)
