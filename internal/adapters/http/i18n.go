package web

import (
	"net/http"

	"swimhealth/internal/adapters/http/middleware"
	"swimhealth/internal/domain/preference"
)

// catalog maps language -> key -> text. English is the fallback for missing keys.
var catalog = map[string]map[string]string{
	preference.LanguageEnglish: {
		"app.name":               "SwimHealth",
		"nav.profile":            "My Profile",
		"nav.examinations":       "My Examinations",
		"nav.dashboard":          "Dashboard",
		"nav.signin":             "Sign in",
		"nav.signout":            "Sign out",
		"nav.language":           "العربية",
		"nav.theme.dark":         "Dark mode",
		"nav.theme.light":        "Light mode",
		"landing.title":          "Health records for competitive swimmers",
		"landing.body":           "Coaches track in-body and medical examinations. Swimmers follow their own history.",
		"landing.cta":            "Get started",
		"auth.signin":            "Sign in",
		"auth.signup":            "Create account",
		"auth.swimmer":           "Swimmer",
		"auth.coach":             "Coach",
		"auth.email":             "Email",
		"auth.password":          "Password",
		"auth.name":              "Name",
		"auth.section.identity":  "Personal information",
		"auth.section.parents":   "Parents",
		"auth.section.medical":   "Medical history",
		"auth.next":              "Next",
		"auth.back":              "Back",
		"auth.submit":            "Create account",
		"profile.title":          "My Profile",
		"profile.recent":         "Recent medical results",
		"profile.latestWeight":   "Latest weight",
		"field.fullName":         "Full name",
		"field.nationalId":       "National ID",
		"field.dateOfBirth":      "Date of birth",
		"field.gender":           "Gender",
		"field.bloodType":        "Blood type",
		"field.fatherName":       "Father's name",
		"field.fatherNationalId": "Father's national ID",
		"field.motherName":       "Mother's name",
		"field.motherNationalId": "Mother's national ID",
		"field.allergies":        "Allergies",
		"field.surgeries":        "Previous surgeries",
		"field.chronic":          "Chronic diseases",
		"exam.title":             "My Examinations",
		"exam.inbody":            "In-body",
		"exam.medical":           "Medical",
		"exam.date":              "Date",
		"exam.weight":            "Weight",
		"exam.height":            "Height",
		"exam.muscle":            "Muscle mass",
		"exam.fat":               "Body fat",
		"exam.water":             "Body water",
		"exam.bone":              "Bone mass",
		"exam.bmi":               "BMI",
		"exam.bmr":               "BMR",
		"exam.bp":                "Blood pressure",
		"exam.hr":                "Heart rate",
		"exam.status":            "Status",
		"exam.notes":             "Notes",
		"exam.none":              "No examinations recorded yet.",
		"exam.abnormal":          "Outside normal range",
		"exam.latestInbody":      "Latest in-body",
		"exam.latestMedical":     "Latest medical",
		"dash.title":             "Coach Dashboard",
		"dash.total":             "Swimmers",
		"dash.attention":         "Need attention",
		"dash.records":           "With records",
		"dash.search":            "Search by name or email",
		"dash.attentionOnly":     "Needs attention only",
		"dash.name":              "Name",
		"dash.email":             "Email",
		"dash.lastExam":          "Last examination",
		"dash.empty":             "No swimmers match.",
		"dash.incomplete":        "Some data could not be loaded. The list may be incomplete.",
		"dash.view":              "View",
		"detail.back":            "Back to dashboard",
		"detail.recordInbody":    "Record in-body examination",
		"detail.recordMedical":   "Record medical result",
		"detail.save":            "Save",
		"notfound.title":         "Page not found",
		"notfound.body":          "The page you are looking for does not exist.",
		"notfound.home":          "Go home",
	},
	preference.LanguageArabic: {
		"app.name":               "سويم هيلث",
		"nav.profile":            "ملفي الشخصي",
		"nav.examinations":       "فحوصاتي",
		"nav.dashboard":          "لوحة التحكم",
		"nav.signin":             "تسجيل الدخول",
		"nav.signout":            "تسجيل الخروج",
		"nav.language":           "English",
		"nav.theme.dark":         "الوضع الداكن",
		"nav.theme.light":        "الوضع الفاتح",
		"landing.title":          "سجلات صحية للسباحين",
		"landing.body":           "يتابع المدربون فحوصات الجسم والفحوصات الطبية، ويتابع السباحون سجلهم.",
		"landing.cta":            "ابدأ الآن",
		"auth.signin":            "تسجيل الدخول",
		"auth.signup":            "إنشاء حساب",
		"auth.swimmer":           "سباح",
		"auth.coach":             "مدرب",
		"auth.email":             "البريد الإلكتروني",
		"auth.password":          "كلمة المرور",
		"auth.name":              "الاسم",
		"auth.section.identity":  "المعلومات الشخصية",
		"auth.section.parents":   "الوالدان",
		"auth.section.medical":   "التاريخ الطبي",
		"auth.next":              "التالي",
		"auth.back":              "السابق",
		"auth.submit":            "إنشاء الحساب",
		"profile.title":          "ملفي الشخصي",
		"profile.recent":         "أحدث النتائج الطبية",
		"profile.latestWeight":   "آخر وزن",
		"field.fullName":         "الاسم الكامل",
		"field.nationalId":       "رقم الهوية",
		"field.dateOfBirth":      "تاريخ الميلاد",
		"field.gender":           "الجنس",
		"field.bloodType":        "فصيلة الدم",
		"field.fatherName":       "اسم الأب",
		"field.fatherNationalId": "رقم هوية الأب",
		"field.motherName":       "اسم الأم",
		"field.motherNationalId": "رقم هوية الأم",
		"field.allergies":        "الحساسية",
		"field.surgeries":        "العمليات السابقة",
		"field.chronic":          "الأمراض المزمنة",
		"exam.title":             "فحوصاتي",
		"exam.inbody":            "تحليل الجسم",
		"exam.medical":           "طبي",
		"exam.date":              "التاريخ",
		"exam.weight":            "الوزن",
		"exam.height":            "الطول",
		"exam.muscle":            "الكتلة العضلية",
		"exam.fat":               "نسبة الدهون",
		"exam.water":             "نسبة الماء",
		"exam.bone":              "كتلة العظام",
		"exam.bmi":               "مؤشر كتلة الجسم",
		"exam.bmr":               "معدل الأيض",
		"exam.bp":                "ضغط الدم",
		"exam.hr":                "معدل النبض",
		"exam.status":            "الحالة",
		"exam.notes":             "ملاحظات",
		"exam.none":              "لا توجد فحوصات بعد.",
		"exam.abnormal":          "خارج النطاق الطبيعي",
		"exam.latestInbody":      "آخر تحليل للجسم",
		"exam.latestMedical":     "آخر فحص طبي",
		"dash.title":             "لوحة المدرب",
		"dash.total":             "السباحون",
		"dash.attention":         "بحاجة إلى متابعة",
		"dash.records":           "لديهم سجلات",
		"dash.search":            "ابحث بالاسم أو البريد",
		"dash.attentionOnly":     "بحاجة إلى متابعة فقط",
		"dash.name":              "الاسم",
		"dash.email":             "البريد الإلكتروني",
		"dash.lastExam":          "آخر فحص",
		"dash.empty":             "لا يوجد سباحون مطابقون.",
		"dash.incomplete":        "تعذر تحميل بعض البيانات. قد تكون القائمة ناقصة.",
		"dash.view":              "عرض",
		"detail.back":            "العودة إلى اللوحة",
		"detail.recordInbody":    "تسجيل تحليل الجسم",
		"detail.recordMedical":   "تسجيل نتيجة طبية",
		"detail.save":            "حفظ",
		"notfound.title":         "الصفحة غير موجودة",
		"notfound.body":          "الصفحة التي تبحث عنها غير موجودة.",
		"notfound.home":          "الصفحة الرئيسية",
	},
}

// translate looks key up in lang, then English, then returns the key itself.
func translate(lang, key string) string {
	if s, ok := catalog[lang][key]; ok {
		return s
	}
	if s, ok := catalog[preference.LanguageEnglish][key]; ok {
		return s
	}
	return key
}

// Anonymous visitors keep their choice in these cookies.
const (
	langCookieName  = "swimhealth_lang"
	themeCookieName = "swimhealth_theme"
)

// preferenceFor resolves the display preference of the request:
// the stored one for signed-in accounts, cookies (over the default) otherwise.
func preferenceFor(r *http.Request) preference.Preference {
	if settings == nil {
		return preference.Default()
	}
	if sess, ok := middleware.GetSessionFromContext(r.Context()); ok {
		return settings.Get(sess.AccountID)
	}
	p := settings.Default()
	if c, err := r.Cookie(langCookieName); err == nil && preference.ValidLanguage(c.Value) {
		p.Language = c.Value
	}
	if c, err := r.Cookie(themeCookieName); err == nil && preference.ValidTheme(c.Value) {
		p.Theme = c.Value
	}
	return p
}
