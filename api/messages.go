package api

// User-facing messages. The dashboard is an Arabic product; these
// strings are surfaced verbatim by the UI, so changing one changes what
// operators read.
const (
	MsgInvalidToken  = "توكن البوت غير صالح أو منتهي الصلاحية"
	MsgNotBotToken   = "التوكن المدخل ليس توكن بوت"
	MsgBotNotInGuild = "البوت غير موجود في هذا السيرفر"
	MsgGuildNotFound = "السيرفر غير موجود. تأكد من صحة الآيدي"

	MsgDefaultKickReason = "تم الطرد من لوحة التحكم"
	MsgDefaultBanReason  = "تم الحظر من لوحة التحكم"

	MsgTokenRequired    = "Token is required"
	MsgGuildIDRequired  = "Guild ID is required"
	MsgMemberIDRequired = "Guild ID and User ID are required"
	MsgInvalidAction    = "Invalid action"
	MsgInvalidBody      = "Invalid request body"
)
