package nodes

// Graph node names.
const (
	NodeRouteIntent           = "route_intent"
	NodeUpdateTripDetails     = "update_trip_details"
	NodeChatWithUser          = "chat_with_user"
	NodeRequestMissingDetails = "request_missing_details"
	NodeCheckSurfForecast     = "check_surf_forecast"
	NodeInformUserOfBadSurf   = "inform_user_of_bad_surf"
	NodePlanTravelLogistics   = "plan_travel_logistics"
	NodeExecuteTools          = "execute_tools"
	NodeSummarizePlan         = "summarize_plan"
	NodeHandleError           = "handle_error"
)

// Terminal reports whether the run ends after node.
func Terminal(node string) bool {
	switch node {
	case NodeChatWithUser, NodeRequestMissingDetails, NodeHandleError, NodeSummarizePlan, NodeInformUserOfBadSurf:
		return true
	}
	return false
}
