package taskpool

// PoolTask is a candidate task string pre-tagged with its category
type PoolTask struct {
	Text     string
	Category Category
}

// PlanningTaskText — фиксированная "задача планирования", занимающая один
// слот сложного уровня начиная со дня разблокировки сложных задач.
const PlanningTaskText = "Запиши 1-2 свои сложные задачи на сегодня командой /add — это твой главный фокус дня"

var easyPool = []PoolTask{
	{"Выпить стакан воды", CategoryPhysical},
	{"Сделать 10 приседаний", CategoryPhysical},
	{"Потянуться 2 минуты", CategoryPhysical},
	{"Пройтись 5 минут пешком", CategoryPhysical},
	{"Сделать 10 глубоких вдохов", CategoryPhysical},
	{"Размять шею и плечи", CategoryPhysical},
	{"Подняться по лестнице пешком", CategoryPhysical},
	{"Постоять в планке 30 секунд", CategoryPhysical},
	{"Записать три мысли, которые крутятся в голове", CategoryMental},
	{"Прочитать одну страницу книги", CategoryMental},
	{"Выучить одно новое слово", CategoryMental},
	{"Решить одну головоломку или судоку", CategoryMental},
	{"Посидеть 2 минуты в тишине", CategoryMental},
	{"Записать главную задачу на завтра", CategoryMental},
	{"Вспомнить три вещи, за которые благодарен", CategoryMental},
	{"Отключить уведомления на час", CategoryMental},
	{"Нарисовать что-нибудь за 3 минуты", CategoryCreative},
	{"Придумать название для своей будущей книги", CategoryCreative},
	{"Сфотографировать что-то красивое рядом", CategoryCreative},
	{"Записать одну идею в блокнот", CategoryCreative},
	{"Напеть любимую мелодию", CategoryCreative},
	{"Придумать рифму к слову «поток»", CategoryCreative},
	{"Описать свой день одним предложением", CategoryCreative},
	{"Набросать список из пяти идей подарков", CategoryCreative},
	{"Написать другу, с которым давно не общался", CategorySocial},
	{"Сделать комплимент кому-нибудь", CategorySocial},
	{"Поблагодарить коллегу за помощь", CategorySocial},
	{"Позвонить родителям", CategorySocial},
	{"Улыбнуться первому встречному", CategorySocial},
	{"Ответить на отложенное сообщение", CategorySocial},
	{"Пожелать кому-нибудь хорошего дня", CategorySocial},
	{"Поделиться полезной статьей с другом", CategorySocial},
	{"Убрать три лишние вещи со стола", CategoryHousehold},
	{"Помыть свою кружку сразу после чая", CategoryHousehold},
	{"Полить цветы", CategoryHousehold},
	{"Протереть экран телефона", CategoryHousehold},
	{"Вынести мусор", CategoryHousehold},
	{"Заправить кровать", CategoryHousehold},
	{"Разобрать один карман сумки или рюкзака", CategoryHousehold},
	{"Повесить одежду на место", CategoryHousehold},
}

var standardPool = []PoolTask{
	{"Сделать зарядку 15 минут", CategoryPhysical},
	{"Прогуляться 30 минут без телефона", CategoryPhysical},
	{"Сделать тренировку на пресс", CategoryPhysical},
	{"Пройти 8000 шагов за день", CategoryPhysical},
	{"Прочитать 20 страниц книги", CategoryMental},
	{"Составить план на неделю", CategoryMental},
	{"Разобрать входящие письма до нуля", CategoryMental},
	{"Пройти один урок онлайн-курса", CategoryMental},
	{"Написать пост или заметку на 200 слов", CategoryCreative},
	{"Собрать плейлист под рабочее настроение", CategoryCreative},
	{"Нарисовать скетч своего рабочего места", CategoryCreative},
	{"Снять короткое видео о своем дне", CategoryCreative},
	{"Договориться о встрече с другом на этой неделе", CategorySocial},
	{"Написать развернутый отзыв о любимом месте", CategorySocial},
	{"Помочь кому-нибудь с его задачей", CategorySocial},
	{"Познакомиться с новым человеком", CategorySocial},
	{"Разобрать одну полку в шкафу", CategoryHousehold},
	{"Приготовить новое блюдо по рецепту", CategoryHousehold},
	{"Навести порядок на рабочем столе компьютера", CategoryHousehold},
	{"Составить список покупок на неделю", CategoryHousehold},
}

var hardPool = []PoolTask{
	{"Провести полноценную тренировку 45 минут", CategoryPhysical},
	{"Устроить день без лифта и транспорта на короткие расстояния", CategoryPhysical},
	{"Поработать 2 часа без отвлечений по таймеру", CategoryMental},
	{"Разобрать и спланировать самый откладываемый проект", CategoryMental},
	{"Провести день без социальных сетей", CategoryMental},
	{"Написать черновик статьи целиком", CategoryCreative},
	{"Закончить отложенный творческий проект", CategoryCreative},
	{"Провести сложный разговор, который давно откладывал", CategorySocial},
	{"Выступить с идеей перед коллегами", CategorySocial},
	{"Сделать генеральную уборку одной комнаты", CategoryHousehold},
	{"Разобрать весь гардероб и собрать пакет на отдачу", CategoryHousehold},
	{"Навести полный порядок в документах", CategoryHousehold},
}

var magicPool = []PoolTask{
	{"Сделать что-то приятное незнакомому человеку", CategorySocial},
	{"Устроить себе час полной тишины", CategoryMental},
	{"Посмотреть на закат или рассвет", CategoryMental},
	{"Написать письмо себе в будущее", CategoryCreative},
	{"Попробовать то, чего никогда не делал", CategoryCreative},
	{"Провести вечер без экранов", CategoryMental},
	{"Приготовить завтрак для близкого человека", CategorySocial},
	{"Потанцевать под любимую песню", CategoryPhysical},
	{"Записать три свои маленькие победы за неделю", CategoryMental},
	{"Подарить кому-нибудь цветы без повода", CategorySocial},
}
