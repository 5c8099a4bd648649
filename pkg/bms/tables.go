package bms

// Lookup tables for the pack's open-circuit-voltage and internal-resistance
// characteristics. Generated offline from characterization fits of a 12 V
// lead-acid style pack (OCV span 12.05844..13.41786 V, -20..40 C operating
// band); embedded as build-time constants so the estimator never does I/O.
//
// vAxis is strictly increasing; socTable is monotone non-decreasing in V
// along every temperature column. socAxisR is strictly increasing; rTable is
// non-increasing in SOC and in T.

// vAxis is the terminal-voltage grid (Volts), 100 points over the OCV range.
var vAxis = [100]float64{
	12.058440, 12.072172, 12.085903, 12.099635, 12.113366,
	12.127098, 12.140829, 12.154561, 12.168292, 12.182024,
	12.195755, 12.209487, 12.223218, 12.236950, 12.250681,
	12.264413, 12.278144, 12.291876, 12.305607, 12.319339,
	12.333070, 12.346802, 12.360533, 12.374265, 12.387996,
	12.401728, 12.415459, 12.429191, 12.442922, 12.456654,
	12.470385, 12.484117, 12.497848, 12.511580, 12.525312,
	12.539043, 12.552775, 12.566506, 12.580238, 12.593969,
	12.607701, 12.621432, 12.635164, 12.648895, 12.662627,
	12.676358, 12.690090, 12.703821, 12.717553, 12.731284,
	12.745016, 12.758747, 12.772479, 12.786210, 12.799942,
	12.813673, 12.827405, 12.841136, 12.854868, 12.868599,
	12.882331, 12.896062, 12.909794, 12.923525, 12.937257,
	12.950988, 12.964720, 12.978452, 12.992183, 13.005915,
	13.019646, 13.033378, 13.047109, 13.060841, 13.074572,
	13.088304, 13.102035, 13.115767, 13.129498, 13.143230,
	13.156961, 13.170693, 13.184424, 13.198156, 13.211887,
	13.225619, 13.239350, 13.253082, 13.266813, 13.280545,
	13.294276, 13.308008, 13.321739, 13.335471, 13.349202,
	13.362934, 13.376665, 13.390397, 13.404128, 13.417860,
}

// tAxis is the temperature grid in Kelvin (-20 C to +40 C).
var tAxis = [7]float64{253.150000, 263.150000, 273.150000, 283.150000, 293.150000, 303.150000, 313.150000}

// socTable holds SOC (%) at each (voltage, temperature) grid point.
var socTable = [100][7]float64{
	{3.3102, 2.5746, 1.8390, 1.1034, 0.3678, 0.0000, 0.0000},
	{4.3203, 3.5847, 2.8491, 2.1135, 1.3779, 0.6423, 0.0000},
	{5.3304, 4.5948, 3.8592, 3.1236, 2.3880, 1.6524, 0.9168},
	{6.3405, 5.6049, 4.8693, 4.1337, 3.3981, 2.6625, 1.9269},
	{7.3506, 6.6150, 5.8794, 5.1438, 4.4082, 3.6726, 2.9370},
	{8.3607, 7.6251, 6.8895, 6.1539, 5.4183, 4.6827, 3.9471},
	{9.3708, 8.6352, 7.8996, 7.1640, 6.4284, 5.6928, 4.9572},
	{10.3809, 9.6453, 8.9097, 8.1741, 7.4385, 6.7029, 5.9673},
	{11.3910, 10.6554, 9.9198, 9.1842, 8.4486, 7.7130, 6.9774},
	{12.4011, 11.6655, 10.9299, 10.1943, 9.4587, 8.7231, 7.9875},
	{13.4112, 12.6756, 11.9400, 11.2044, 10.4688, 9.7332, 8.9976},
	{14.4213, 13.6857, 12.9501, 12.2145, 11.4789, 10.7433, 10.0077},
	{15.4314, 14.6958, 13.9602, 13.2246, 12.4890, 11.7534, 11.0178},
	{16.4415, 15.7059, 14.9703, 14.2347, 13.4991, 12.7635, 12.0279},
	{17.4516, 16.7160, 15.9804, 15.2448, 14.5092, 13.7736, 13.0380},
	{18.4618, 17.7261, 16.9905, 16.2549, 15.5193, 14.7837, 14.0481},
	{19.4719, 18.7362, 18.0006, 17.2650, 16.5294, 15.7938, 15.0582},
	{20.4820, 19.7463, 19.0107, 18.2751, 17.5395, 16.8039, 16.0683},
	{21.4921, 20.7564, 20.0208, 19.2852, 18.5496, 17.8140, 17.0784},
	{22.5022, 21.7665, 21.0309, 20.2953, 19.5597, 18.8241, 18.0885},
	{23.5123, 22.7766, 22.0410, 21.3054, 20.5698, 19.8342, 19.0986},
	{24.5224, 23.7867, 23.0511, 22.3155, 21.5799, 20.8443, 20.1087},
	{25.5325, 24.7968, 24.0612, 23.3256, 22.5900, 21.8544, 21.1188},
	{26.5426, 25.8070, 25.0713, 24.3357, 23.6001, 22.8645, 22.1289},
	{27.5527, 26.8171, 26.0814, 25.3458, 24.6102, 23.8746, 23.1390},
	{28.5628, 27.8272, 27.0915, 26.3559, 25.6203, 24.8847, 24.1491},
	{29.5729, 28.8373, 28.1016, 27.3660, 26.6304, 25.8948, 25.1592},
	{30.5830, 29.8474, 29.1117, 28.3761, 27.6405, 26.9049, 26.1693},
	{31.5931, 30.8575, 30.1218, 29.3862, 28.6506, 27.9150, 27.1794},
	{32.6032, 31.8676, 31.1319, 30.3963, 29.6607, 28.9251, 28.1895},
	{33.6133, 32.8777, 32.1420, 31.4064, 30.6708, 29.9352, 29.1996},
	{34.6234, 33.8878, 33.1522, 32.4165, 31.6809, 30.9453, 30.2097},
	{35.6335, 34.8979, 34.1623, 33.4266, 32.6910, 31.9554, 31.2198},
	{36.6436, 35.9080, 35.1724, 34.4367, 33.7011, 32.9655, 32.2299},
	{37.6537, 36.9181, 36.1825, 35.4468, 34.7112, 33.9756, 33.2400},
	{38.6638, 37.9282, 37.1926, 36.4569, 35.7213, 34.9857, 34.2501},
	{39.6739, 38.9383, 38.2027, 37.4670, 36.7314, 35.9958, 35.2602},
	{40.6840, 39.9484, 39.2128, 38.4771, 37.7415, 37.0059, 36.2703},
	{41.6941, 40.9585, 40.2229, 39.4873, 38.7516, 38.0160, 37.2804},
	{42.7042, 41.9686, 41.2330, 40.4974, 39.7617, 39.0261, 38.2905},
	{43.7143, 42.9787, 42.2431, 41.5075, 40.7718, 40.0362, 39.3006},
	{44.7244, 43.9888, 43.2532, 42.5176, 41.7819, 41.0463, 40.3107},
	{45.7345, 44.9989, 44.2633, 43.5277, 42.7920, 42.0564, 41.3208},
	{46.7446, 46.0090, 45.2734, 44.5378, 43.8021, 43.0665, 42.3309},
	{47.7547, 47.0191, 46.2835, 45.5479, 44.8122, 44.0766, 43.3410},
	{48.7648, 48.0292, 47.2936, 46.5580, 45.8223, 45.0867, 44.3511},
	{49.7749, 49.0393, 48.3037, 47.5681, 46.8325, 46.0968, 45.3612},
	{50.7850, 50.0494, 49.3138, 48.5782, 47.8426, 47.1069, 46.3713},
	{51.7951, 51.0595, 50.3239, 49.5883, 48.8527, 48.1170, 47.3814},
	{52.8052, 52.0696, 51.3340, 50.5984, 49.8628, 49.1271, 48.3915},
	{53.8153, 53.0797, 52.3441, 51.6085, 50.8729, 50.1372, 49.4016},
	{54.8254, 54.0898, 53.3542, 52.6186, 51.8830, 51.1473, 50.4117},
	{55.8355, 55.0999, 54.3643, 53.6287, 52.8931, 52.1574, 51.4218},
	{56.8456, 56.1100, 55.3744, 54.6388, 53.9032, 53.1675, 52.4319},
	{57.8557, 57.1201, 56.3845, 55.6489, 54.9133, 54.1777, 53.4420},
	{58.8658, 58.1302, 57.3946, 56.6590, 55.9234, 55.1878, 54.4521},
	{59.8759, 59.1403, 58.4047, 57.6691, 56.9335, 56.1979, 55.4622},
	{60.8860, 60.1504, 59.4148, 58.6792, 57.9436, 57.2080, 56.4723},
	{61.8961, 61.1605, 60.4249, 59.6893, 58.9537, 58.2181, 57.4824},
	{62.9062, 62.1706, 61.4350, 60.6994, 59.9638, 59.2282, 58.4925},
	{63.9163, 63.1807, 62.4451, 61.7095, 60.9739, 60.2383, 59.5026},
	{64.9264, 64.1908, 63.4552, 62.7196, 61.9840, 61.2484, 60.5127},
	{65.9365, 65.2009, 64.4653, 63.7297, 62.9941, 62.2585, 61.5229},
	{66.9466, 66.2110, 65.4754, 64.7398, 64.0042, 63.2686, 62.5330},
	{67.9567, 67.2211, 66.4855, 65.7499, 65.0143, 64.2787, 63.5431},
	{68.9668, 68.2312, 67.4956, 66.7600, 66.0244, 65.2888, 64.5532},
	{69.9769, 69.2413, 68.5057, 67.7701, 67.0345, 66.2989, 65.5633},
	{70.9870, 70.2514, 69.5158, 68.7802, 68.0446, 67.3090, 66.5734},
	{71.9971, 71.2615, 70.5259, 69.7903, 69.0547, 68.3191, 67.5835},
	{73.0072, 72.2716, 71.5360, 70.8004, 70.0648, 69.3292, 68.5936},
	{74.0173, 73.2817, 72.5461, 71.8105, 71.0749, 70.3393, 69.6037},
	{75.0274, 74.2918, 73.5562, 72.8206, 72.0850, 71.3494, 70.6138},
	{76.0375, 75.3019, 74.5663, 73.8307, 73.0951, 72.3595, 71.6239},
	{77.0476, 76.3120, 75.5764, 74.8408, 74.1052, 73.3696, 72.6340},
	{78.0577, 77.3221, 76.5865, 75.8509, 75.1153, 74.3797, 73.6441},
	{79.0678, 78.3322, 77.5966, 76.8610, 76.1254, 75.3898, 74.6542},
	{80.0779, 79.3423, 78.6067, 77.8711, 77.1355, 76.3999, 75.6643},
	{81.0880, 80.3524, 79.6168, 78.8812, 78.1456, 77.4100, 76.6744},
	{82.0981, 81.3625, 80.6269, 79.8913, 79.1557, 78.4201, 77.6845},
	{83.1082, 82.3726, 81.6370, 80.9014, 80.1658, 79.4302, 78.6946},
	{84.1183, 83.3827, 82.6471, 81.9115, 81.1759, 80.4403, 79.7047},
	{85.1284, 84.3928, 83.6572, 82.9216, 82.1860, 81.4504, 80.7148},
	{86.1385, 85.4029, 84.6673, 83.9317, 83.1961, 82.4605, 81.7249},
	{87.1486, 86.4130, 85.6774, 84.9418, 84.2062, 83.4706, 82.7350},
	{88.1587, 87.4231, 86.6875, 85.9519, 85.2163, 84.4807, 83.7451},
	{89.1688, 88.4332, 87.6976, 86.9620, 86.2264, 85.4908, 84.7552},
	{90.1789, 89.4433, 88.7077, 87.9721, 87.2365, 86.5009, 85.7653},
	{91.1890, 90.4534, 89.7178, 88.9822, 88.2466, 87.5110, 86.7754},
	{92.1991, 91.4635, 90.7279, 89.9923, 89.2567, 88.5211, 87.7855},
	{93.2092, 92.4736, 91.7380, 91.0024, 90.2668, 89.5312, 88.7956},
	{94.2193, 93.4837, 92.7481, 92.0125, 91.2769, 90.5413, 89.8057},
	{95.2294, 94.4938, 93.7582, 93.0226, 92.2870, 91.5514, 90.8158},
	{96.2395, 95.5039, 94.7683, 94.0327, 93.2971, 92.5615, 91.8259},
	{97.2496, 96.5140, 95.7784, 95.0428, 94.3072, 93.5716, 92.8360},
	{98.2597, 97.5241, 96.7885, 96.0529, 95.3173, 94.5817, 93.8461},
	{99.2698, 98.5342, 97.7986, 97.0630, 96.3274, 95.5918, 94.8562},
	{100.0000, 99.5443, 98.8087, 98.0731, 97.3375, 96.6019, 95.8663},
	{100.0000, 100.0000, 99.8188, 99.0832, 98.3476, 97.6120, 96.8764},
	{100.0000, 100.0000, 100.0000, 100.0000, 99.3577, 98.6221, 97.8865},
	{100.0000, 100.0000, 100.0000, 100.0000, 100.0000, 99.6322, 98.8966},
}

// socAxisR is the SOC grid (%) for the internal-resistance lookup.
var socAxisR = [10]float64{5, 15, 25, 35, 45, 55, 65, 75, 85, 95}

// rTable holds internal resistance (Ohms) at each (SOC, temperature) grid point.
var rTable = [10][7]float64{
	{0.026475, 0.022111, 0.018711, 0.016022, 0.013866, 0.012114, 0.010676},
	{0.023438, 0.019575, 0.016565, 0.014184, 0.012275, 0.010725, 0.009451},
	{0.020739, 0.017320, 0.014657, 0.012551, 0.010861, 0.009489, 0.008363},
	{0.018377, 0.015347, 0.012988, 0.011121, 0.009624, 0.008408, 0.007410},
	{0.016352, 0.013656, 0.011557, 0.009896, 0.008564, 0.007482, 0.006594},
	{0.014665, 0.012247, 0.010364, 0.008875, 0.007680, 0.006710, 0.005913},
	{0.013315, 0.011120, 0.009410, 0.008058, 0.006973, 0.006092, 0.005369},
	{0.012303, 0.010275, 0.008695, 0.007445, 0.006443, 0.005629, 0.004961},
	{0.011628, 0.009711, 0.008218, 0.007037, 0.006090, 0.005320, 0.004689},
	{0.011290, 0.009429, 0.007979, 0.006833, 0.005913, 0.005166, 0.004553},
}
