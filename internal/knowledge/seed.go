package knowledge

import (
	"time"

	"github.com/spartanmed/medchat/internal/domain"
)

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// DefaultItems returns the curated CHM curriculum dataset. The portal seeds
// the store with this set at startup; tests build their own synthetic sets.
func DefaultItems() []domain.KnowledgeItem {
	return []domain.KnowledgeItem{
		domain.NewKnowledgeItem(
			"kb-learning-societies",
			"CHM Learning Societies System",
			`The College of Human Medicine organizes every student into one of four learning societies for all phases of the program.

**What learning societies do:**
- Pair each student with a faculty mentor for longitudinal advising
- Host weekly small-group sessions on clinical reasoning and professionalism
- Run intramural academic and service competitions between societies
- Provide a consistent peer community across campuses

Society assignment happens during orientation and does not change unless a student transfers campuses. Questions about assignments go to the Office of Student Affairs.`,
			"Student Life",
			"Communities",
			domain.PhaseGeneral,
			[]string{"learning societies", "mentorship", "advising", "community"},
			9,
			date(2025, 7, 14),
			"houses", "small groups", "faculty mentor",
		),
		domain.NewKnowledgeItem(
			"kb-curriculum-overview",
			"Shared Discovery Curriculum Overview",
			`The Shared Discovery Curriculum moves students into clinical settings from the first semester and organizes content around patient presentations rather than discipline blocks.

**Phase structure:**
- M1 (Middle Clinical Experience preparation year one): foundational sciences anchored to chief complaints
- M2: systems-based study with weekly simulated patient encounters
- M3: dedicated board preparation and intersessions
- MCE (Middle Clinical Experience): core clerkship rotations
- LCE (Late Clinical Experience): advanced rotations, sub-internships, and electives

Progress committees review each student at phase boundaries. The curriculum office publishes the week-by-week schedule each July.`,
			"Curriculum",
			"Structure",
			domain.PhaseGeneral,
			[]string{"curriculum", "shared discovery", "phases", "schedule"},
			10,
			date(2025, 7, 1),
			"program structure", "clerkships", "rotations",
		),
		domain.NewKnowledgeItem(
			"kb-usmle-step1",
			"USMLE Step 1 Preparation Guide",
			`Step 1 is pass/fail but remains the gateway to clinical rotations, so CHM schedules a dedicated preparation period at the end of M3.

**Recommended timeline:**
- 12 weeks out: build a question-bank habit of 40 questions per day
- 8 weeks out: complete a first full pass of your content review resource
- 4 weeks out: take NBME practice forms weekly and review incorrects the same day
- 1 week out: taper volume, confirm your testing appointment, sleep

The college covers one NBME practice form per student and the Academic Achievement office offers individual study-plan consultations. Students who score below the readiness threshold on practice forms meet with an advisor before their scheduled test date.`,
			"Board Preparation",
			"USMLE",
			domain.PhaseM3,
			[]string{"usmle", "step 1", "boards", "exam prep"},
			8,
			date(2025, 6, 20),
			"board exam", "dedicated period", "question bank",
		),
		domain.NewKnowledgeItem(
			"kb-usmle-step2",
			"USMLE Step 2 CK Planning",
			`Most CHM students sit Step 2 CK in the summer between MCE and LCE, after completing core clerkships.

Key points:
- Shelf exam performance is the best predictor; review weak clerkships first
- Schedule the exam at least six weeks before residency applications open
- The college recommends two full practice forms during the study period

Students planning competitive specialties should discuss timing with their learning society mentor during the MCE spring advising meeting.`,
			"Board Preparation",
			"USMLE",
			domain.PhaseMCE,
			[]string{"usmle", "step 2", "boards", "clerkship"},
			7,
			date(2025, 5, 2),
			"ck", "shelf exams", "residency timeline",
		),
		domain.NewKnowledgeItem(
			"kb-research-programs",
			"Student Research Programs",
			`CHM supports student research through three structured routes.

- **Summer Research Fellowship**: eight funded weeks between M1 and M2, applications due in February
- **Longitudinal Scholars Track**: a mentored project spanning M2 through LCE with protected half-days
- **Community Research Partnerships**: projects embedded with the college's community campuses

All three routes require a faculty sponsor and IRB coordination through the Office of Research. The annual Student Research Day each April showcases posters from every route.`,
			"Research",
			"Programs",
			domain.PhaseGeneral,
			[]string{"research", "fellowship", "scholars track", "irb"},
			7,
			date(2025, 4, 18),
			"summer research", "posters", "faculty sponsor",
		),
		domain.NewKnowledgeItem(
			"kb-research-funding",
			"Research Travel and Funding",
			`Students presenting accepted work at a regional or national conference can apply for travel support.

The Office of Research funds up to one trip per academic year per student. Applications need the acceptance notice, a budget, and sponsor approval, submitted at least four weeks before travel. Poster printing is free through the media lab with five business days of lead time.`,
			"Research",
			"Funding",
			domain.PhaseGeneral,
			[]string{"research", "travel", "funding", "conference"},
			5,
			date(2025, 3, 10),
			"travel grant", "poster printing",
		),
		domain.NewKnowledgeItem(
			"kb-research-ethics",
			"Responsible Conduct of Research Training",
			`Every student joining a research project completes the responsible conduct of research module before data collection begins.

The online module takes about three hours and certification lasts three years. Projects involving patient data additionally require HIPAA research certification and a data use agreement countersigned by the Office of Research.`,
			"Research",
			"Compliance",
			domain.PhaseGeneral,
			[]string{"research", "ethics", "compliance", "hipaa"},
			4,
			date(2025, 2, 5),
			"rcr", "certification", "data use agreement",
		),
		domain.NewKnowledgeItem(
			"kb-wellness",
			"Student Wellness Resources",
			`The college funds confidential counseling, peer support, and crisis services for all enrolled students.

**Available now:**
- Same-week counseling appointments through the student health portal
- 24/7 crisis line staffed by licensed clinicians
- Peer support network trained in psychological first aid
- Fitness reimbursement of up to $120 per year

Counseling visits are never reported to the college and do not appear in academic records. Students on clinical rotations can schedule telehealth sessions around duty hours.`,
			"Student Life",
			"Wellness",
			domain.PhaseGeneral,
			[]string{"wellness", "counseling", "mental health", "support"},
			8,
			date(2025, 8, 1),
			"crisis line", "therapy", "burnout",
		),
		domain.NewKnowledgeItem(
			"kb-clinical-skills",
			"Clinical Skills and Simulation Center",
			`The simulation center runs standardized patient encounters, procedural skills labs, and high-fidelity simulation for every phase.

Students book practice rooms through the center's scheduler with 48 hours notice. Required encounters are scheduled by the curriculum office and appear on the academic calendar. Recordings of standardized patient encounters are available to the student and their society mentor for two weeks after each session.`,
			"Curriculum",
			"Clinical Skills",
			domain.PhaseGeneral,
			[]string{"simulation", "clinical skills", "standardized patients", "osce"},
			6,
			date(2025, 6, 9),
			"sim center", "practice rooms", "sp encounters",
		),
		domain.NewKnowledgeItem(
			"kb-academic-support",
			"Academic Achievement Support",
			`The Academic Achievement office provides learning specialists, exam-skills workshops, and structured remediation planning.

Any student can self-refer; students flagged by a progress committee are contacted directly. Typical services include study schedule design, test-taking strategy sessions, and accommodation coordination with the university's resource center for persons with disabilities.`,
			"Academics",
			"Support",
			domain.PhaseGeneral,
			[]string{"academic support", "tutoring", "remediation", "accommodations"},
			6,
			date(2025, 5, 28),
			"learning specialist", "study plan", "workshops",
		),
		domain.NewKnowledgeItem(
			"kb-financial-aid",
			"Financial Aid and Scholarships",
			`The financial aid office administers federal loans, institutional scholarships, and emergency grants.

Scholarship review happens once per year with a March 1 priority deadline; most awards renew automatically for students in good standing. Emergency grants up to $1,500 for unexpected hardship are decided within five business days. Fourth-year students can request residency interview travel loans during LCE.`,
			"Administration",
			"Financial Aid",
			domain.PhaseGeneral,
			[]string{"financial aid", "scholarships", "loans", "tuition"},
			5,
			date(2025, 1, 22),
			"emergency grant", "fafsa", "interview travel",
		),
	}
}

// DefaultCurriculum returns the static week-by-week table for each phase.
func DefaultCurriculum() []domain.CurriculumWeek {
	return []domain.CurriculumWeek{
		{Phase: domain.PhaseM1, Week: 1, Topic: "Foundations of Medicine", Themes: []string{"cell biology", "biochemistry", "professional identity"}},
		{Phase: domain.PhaseM1, Week: 2, Topic: "Cardiovascular System I", Themes: []string{"cardiac physiology", "chest pain", "ecg basics"}},
		{Phase: domain.PhaseM1, Week: 3, Topic: "Cardiovascular System II", Themes: []string{"heart failure", "valvular disease", "pharmacology"}},
		{Phase: domain.PhaseM1, Week: 4, Topic: "Respiratory System", Themes: []string{"ventilation", "dyspnea", "acid-base"}},
		{Phase: domain.PhaseM1, Week: 5, Topic: "Renal System", Themes: []string{"filtration", "electrolytes", "acute kidney injury"}},
		{Phase: domain.PhaseM1, Week: 6, Topic: "Gastrointestinal System", Themes: []string{"digestion", "abdominal pain", "liver function"}},
		{Phase: domain.PhaseM1, Week: 7, Topic: "Endocrine System", Themes: []string{"hormone axes", "diabetes", "thyroid disease"}},
		{Phase: domain.PhaseM1, Week: 8, Topic: "Integration and Assessment", Themes: []string{"multisystem cases", "progress exam"}},

		{Phase: domain.PhaseM2, Week: 1, Topic: "Neurology I", Themes: []string{"neuroanatomy", "stroke", "localization"}},
		{Phase: domain.PhaseM2, Week: 2, Topic: "Neurology II", Themes: []string{"seizures", "movement disorders", "neuropharmacology"}},
		{Phase: domain.PhaseM2, Week: 3, Topic: "Psychiatry", Themes: []string{"mood disorders", "psychosis", "substance use"}},
		{Phase: domain.PhaseM2, Week: 4, Topic: "Hematology and Oncology", Themes: []string{"anemia", "malignancy", "coagulation"}},
		{Phase: domain.PhaseM2, Week: 5, Topic: "Infectious Disease", Themes: []string{"antimicrobials", "sepsis", "immunology"}},
		{Phase: domain.PhaseM2, Week: 6, Topic: "Reproduction and Development", Themes: []string{"pregnancy", "pediatric growth", "genetics"}},

		{Phase: domain.PhaseM3, Week: 1, Topic: "Board Preparation Foundations", Themes: []string{"study planning", "question banks"}},
		{Phase: domain.PhaseM3, Week: 2, Topic: "High-Yield Systems Review", Themes: []string{"cardio", "pulm", "renal"}},
		{Phase: domain.PhaseM3, Week: 3, Topic: "Practice Examinations", Themes: []string{"nbme forms", "timed blocks"}},
		{Phase: domain.PhaseM3, Week: 4, Topic: "Transition to Clerkships", Themes: []string{"clinical documentation", "oral presentations"}},

		{Phase: domain.PhaseMCE, Week: 1, Topic: "Internal Medicine Core", Themes: []string{"ward workflow", "admission notes"}},
		{Phase: domain.PhaseMCE, Week: 2, Topic: "Surgery Core", Themes: []string{"perioperative care", "sterile technique"}},
		{Phase: domain.PhaseMCE, Week: 3, Topic: "Pediatrics Core", Themes: []string{"well-child visits", "dosing"}},
		{Phase: domain.PhaseMCE, Week: 4, Topic: "Obstetrics and Gynecology Core", Themes: []string{"labor management", "prenatal care"}},

		{Phase: domain.PhaseLCE, Week: 1, Topic: "Sub-Internship Preparation", Themes: []string{"cross-cover", "handoffs"}},
		{Phase: domain.PhaseLCE, Week: 2, Topic: "Emergency Medicine", Themes: []string{"triage", "acute stabilization"}},
		{Phase: domain.PhaseLCE, Week: 3, Topic: "Residency Application Seminar", Themes: []string{"eras", "interviews"}},
	}
}
