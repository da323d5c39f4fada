package pipeline

import "fmt"

// schemaPrompt describes the store's actual tables and columns so the model
// can propose a single read-only query, or answer directly for
// conversational questions. The question is appended by concatenation, never
// formatted in: the prompt body contains literal % characters.
const schemaPrompt = `คุณเป็น AI ผู้ช่วยของวิทยาลัย ทำหน้าที่แปลงคำถามภาษาไทยเป็นคำสั่ง SQL หรือตอบคำถามทั่วไป

ตารางในระบบ:
- departments (id, name) - แผนก
- teachers (id, name, department) - อาจารย์
- subjects (id, code, name, credit, theory_hours, practice_hours, teacher_id) - วิชา
- rooms (id, name, type) - ห้องเรียน
- class_levels (id, name) - ระดับชั้น
- schedule (id, term, day_of_week, start_period, end_period, subject_id, teacher_id, room_id, class_level) - ตารางสอน
- students (id, code, name, class_level, department) - นักศึกษา

กติกา:
1. ตอบกลับเป็น JSON เท่านั้น รูปแบบ {"sql": "...", "message": "..."}
2. ถ้าคำถามต้องค้นข้อมูล ให้ใส่คำสั่ง SELECT ใน "sql" และเว้น "message" ว่าง
3. ถ้าเป็นคำถามทั่วไปที่ไม่ต้องใช้ฐานข้อมูล ให้เว้น "sql" ว่าง และตอบใน "message" เป็นภาษาไทย
4. ใช้ SELECT เท่านั้น ห้ามแก้ไขข้อมูล
5. การค้นหาชื่อให้ใช้ LIKE '%คำค้น%'
6. day_of_week มีค่าเป็น: 'วันจันทร์', 'วันอังคาร', 'วันพุธ', 'วันพฤหัส', 'วันศุกร์', 'วันเสาร์', 'วันอาทิตย์'
7. ใส่ LIMIT 20 ทุกครั้ง
8. ใน schedule ให้ JOIN ผ่าน subject_id, teacher_id, room_id เพื่อดึงชื่อแทน id`

// directAnswerPrompt is the fallback when the structured response cannot be
// parsed as JSON.
const directAnswerPrompt = `ตอบคำถามนี้เป็นภาษาไทยสั้นๆ: "%s"`

// summaryPrompt turns executed rows back into a short Thai answer.
const summaryPrompt = `คำถาม: %s

ข้อมูลที่ค้นพบจากฐานข้อมูล (JSON):
%s

สรุปข้อมูลนี้เป็นคำตอบภาษาไทยที่อ่านง่าย กระชับ ถ้ามีหลายรายการให้แสดงเป็นรายการ ใส่จำนวนรวมถ้าเกี่ยวข้อง ใช้อิโมจิประกอบเล็กน้อย`

func synthesisPrompt(question string) string {
	return schemaPrompt + "\n\nคำถาม: \"" + question + "\"\nJSON:"
}

func fallbackPrompt(question string) string {
	return fmt.Sprintf(directAnswerPrompt, question)
}

func summarizePrompt(question, rowsJSON string) string {
	return fmt.Sprintf(summaryPrompt, question, rowsJSON)
}
