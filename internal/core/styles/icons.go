package styles

// Tip: To find icons use https://github.com/loichyan/nerdfix

var (
	IconDocument = " " //
	IconAccepted = " " //
	IconRejected = " " //
	IconPending  = " " //
	IconManual   = "󰏫 " // 󰏫
	IconComplete = " " //
	IconBlock    = "█"
)
