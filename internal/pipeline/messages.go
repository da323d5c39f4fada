package pipeline

// User-facing fallback sentences. Every failure path resolves to one of
// these; raw errors and synthesized query text never reach the caller.
const (
	// MsgAskQuestion is returned for an empty or missing question.
	MsgAskQuestion = "กรุณาพิมพ์คำถามครับ"

	// MsgRateLimited is the in-chat reply when a websocket client exceeds
	// its request window.
	MsgRateLimited = "ขอโทษครับ มีคำถามเข้ามามากเกินไป กรุณารอสักครู่แล้วถามใหม่ครับ"

	// msgNoModelHelp is the static help text when no rule matched and the
	// model path is unavailable (missing API key).
	msgNoModelHelp = "ผมยังไม่เข้าใจคำถามนี้ครับ 🤔\n\nลองถามแบบนี้ดูนะครับ:\n• มีนักศึกษากี่คน?\n• มีอาจารย์กี่คน?\n• มีวิชากี่วิชา?\n• ค้นหานักศึกษาชื่อ..."

	// msgNoLiveModel is returned when every candidate failed its probe.
	msgNoLiveModel = "ขออภัยครับ ไม่สามารถเชื่อมต่อ AI ได้ กรุณาตรวจสอบ GEMINI_API_KEY หรือลองใหม่ภายหลัง"

	// msgSynthesisDown covers unparsable model output whose direct-answer
	// fallback also failed.
	msgSynthesisDown = "ขออภัยครับ ระบบ AI ไม่สามารถตอบได้ในขณะนี้ กรุณาลองใหม่ภายหลัง"

	// msgAmbiguous is returned when the model produced neither a query nor
	// a message.
	msgAmbiguous = "ผมเข้าใจคำถามครับ แต่ไม่แน่ใจว่าต้องการข้อมูลอะไร ลองถามให้ชัดเจนขึ้นนะครับ"

	// msgReadOnly rejects any synthesized statement that is not a SELECT.
	msgReadOnly = "ระบบอนุญาตเฉพาะการค้นหาข้อมูลเท่านั้นครับ"

	// msgQueryError suggests retry phrasings after an execution fault.
	msgQueryError = "ขออภัยครับ ผมพยายามค้นหาแล้วแต่เกิดข้อผิดพลาด ลองถามใหม่โดยระบุให้ชัดเจนขึ้นนะครับ เช่น \"มีนักศึกษากี่คน\" หรือ \"อาจารย์สมชายสอนวิชาอะไร\""

	// msgNoData short-circuits an empty result set past the summarizer.
	msgNoData = "ไม่พบข้อมูลที่ตรงกับคำถามของคุณครับ ลองถามด้วยคำอื่นดูนะครับ"

	// msgServiceBusy maps model quota/rate-limit errors, distinguished from
	// generic failures so users understand the cause.
	msgServiceBusy = "ขออภัยครับ ระบบ AI มีการใช้งานมากเกินไป กรุณารอสักครู่แล้วลองใหม่ครับ"

	// msgGenericError is the catch-all retry suggestion.
	msgGenericError = "ขออภัยครับ เกิดข้อผิดพลาด ลองถามใหม่อีกครั้งนะครับ 🙏"
)
