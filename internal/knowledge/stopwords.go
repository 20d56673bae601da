package knowledge

import "strings"

func wordSet(words string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, w := range strings.Fields(words) {
		set[w] = struct{}{}
	}
	return set
}

// Common Spanish function words, pronouns and auxiliaries.
var spanishStopWords = wordSet(`
a acá ahí al algo algún alguna algunas alguno algunos allá allí ante antes aquel aquella
aquellas aquello aquellos aquí así aun aún bajo bastante bien buen buena buenas bueno buenos
cada casi cierta ciertas cierto ciertos como cómo con conmigo contigo contra cual cuál cuales
cualquier cuanto cuánto cuya cuyo de del desde donde dos durante e el él ella ellas ello ellos
en entonces entre era eran eres es esa esas ese eso esos esta está estaba estado estamos están
estar estas este esto estos estoy fue fueron fui gran ha haber había habían hace hacen hacer
hacia han has hasta hay he hemos hoy la las le les lo los más me mi mí mis mucha muchas mucho
muchos muy nada ni no nos nosotros nuestra nuestras nuestro nuestros o os otra otras otro otros
para pero poco por porque puede pueden puedo pues que qué quien quién quienes quiere quiero se
sea según ser si sí sido siempre sin sino sobre su sus también tan tanto te tener tengo ti
tiene tienen toda todas todo todos tu tú tus u un una unas uno unos usted ustedes va vamos van
vosotros y ya yo
`)

// Common English function words, pronouns and auxiliaries.
var englishStopWords = wordSet(`
a about above after again against all also am an and any are as at be because been before
being below between both but by ca can could did do does doing down during each few for from
further had has have having he her here hers herself him himself his how i if in into is it
its itself just me more most my myself no nor not now of off on once only or other our ours
ourselves out over own please same she should so some such than that the their theirs them
themselves then there these they this those through to too under until up very was we were
what when where which while who whom why will with would you your yours yourself yourselves
`)
